package whatsapp

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownTemplate = errors.New("unknown template type")

// TemplateType identifies a message intent.
type TemplateType int

const (
	TemplateReminder TemplateType = iota
	TemplateConfirmation
	TemplateFollowUp
	TemplateBirthday
	TemplateCancellation
	TemplateNotice

	templateTypeCount
)

var templateTypeNames = [templateTypeCount]string{
	TemplateReminder:     "reminder",
	TemplateConfirmation: "confirmation",
	TemplateFollowUp:     "follow_up",
	TemplateBirthday:     "birthday",
	TemplateCancellation: "cancellation",
	TemplateNotice:       "notice",
}

func (t TemplateType) Valid() bool {
	return t >= 0 && t < templateTypeCount
}

func (t TemplateType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("TemplateType(%d)", int(t))
	}
	return templateTypeNames[t]
}

func (t TemplateType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, ErrUnknownTemplate
	}
	return []byte(templateTypeNames[t]), nil
}

func (t *TemplateType) UnmarshalText(b []byte) error {
	v, err := ParseTemplateType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseTemplateType maps an external name such as "reminder" to its type.
func ParseTemplateType(s string) (TemplateType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range templateTypeNames {
		if name == s {
			return TemplateType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTemplate, s)
}

// TemplateTypes lists every registered type in declaration order.
func TemplateTypes() []TemplateType {
	out := make([]TemplateType, 0, templateTypeCount)
	for t := TemplateType(0); t < templateTypeCount; t++ {
		out = append(out, t)
	}
	return out
}

// Field is a named value that templates can reference.
type Field int

const (
	FieldPatientName Field = iota
	FieldDate
	FieldTime
	FieldProfessionalName
	FieldClinicName
	FieldCustom

	fieldCount
)

var fieldNames = [fieldCount]string{
	FieldPatientName:      "patient_name",
	FieldDate:             "date",
	FieldTime:             "time",
	FieldProfessionalName: "professional_name",
	FieldClinicName:       "clinic_name",
	FieldCustom:           "custom",
}

func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// Context carries the values available for substitution. A blank field is
// absent.
type Context struct {
	PatientName      string `json:"patient_name,omitempty"`
	Date             string `json:"date,omitempty"`
	Time             string `json:"time,omitempty"`
	ProfessionalName string `json:"professional_name,omitempty"`
	ClinicName       string `json:"clinic_name,omitempty"`
	Custom           string `json:"custom,omitempty"`
}

func (c Context) lookup(f Field) (string, bool) {
	var v string
	switch f {
	case FieldPatientName:
		v = c.PatientName
	case FieldDate:
		v = c.Date
	case FieldTime:
		v = c.Time
	case FieldProfessionalName:
		v = c.ProfessionalName
	case FieldClinicName:
		v = c.ClinicName
	case FieldCustom:
		v = c.Custom
	}
	if strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// Template syntax: {{field}} is a placeholder, [[...]] is an optional group
// dropped as a whole when one of its fields resolves to nothing.
const (
	openField  = "{{"
	closeField = "}}"
	openGroup  = "[["
	closeGroup = "]]"
)

type segmentKind int

const (
	segLiteral segmentKind = iota
	segField
	segGroup
)

type segment struct {
	kind    segmentKind
	literal string
	field   Field
	group   []segment
}

type template struct {
	segments []segment
	defaults map[Field]string
}

var registry = [templateTypeCount]template{
	TemplateReminder: mustCompile(
		"Olá[[ {{patient_name}}]]! Passando para lembrar da sua consulta"+
			"[[ com {{professional_name}}]][[ no dia {{date}}]][[ às {{time}}]][[ na {{clinic_name}}]]. Até breve!",
		nil),
	TemplateConfirmation: mustCompile(
		"Olá[[ {{patient_name}}]]! Podemos confirmar sua consulta"+
			"[[ com {{professional_name}}]][[ no dia {{date}}]][[ às {{time}}]]? "+
			"Responda SIM para confirmar ou NÃO para remarcar.",
		nil),
	TemplateFollowUp: mustCompile(
		"Olá[[ {{patient_name}}]]! Como você está se sentindo após a consulta[[ do dia {{date}}]]?"+
			"[[ {{custom}}]] Estamos à disposição[[ na {{clinic_name}}]].",
		nil),
	TemplateBirthday: mustCompile(
		"Feliz aniversário[[, {{patient_name}}]]! 🎉 Toda a equipe[[ da {{clinic_name}}]] deseja muita saúde e alegria.",
		nil),
	TemplateCancellation: mustCompile(
		"Olá[[ {{patient_name}}]]. Informamos que sua consulta"+
			"[[ com {{professional_name}}]][[ do dia {{date}}]][[ às {{time}}]] foi cancelada. "+
			"Entre em contato para remarcar.",
		nil),
	TemplateNotice: mustCompile(
		"Olá[[ {{patient_name}}]]! {{custom}}[[\n{{clinic_name}}]]",
		map[Field]string{
			FieldCustom: "Temos uma mensagem para você. Por favor, entre em contato conosco.",
		}),
}

// Render substitutes ctx into the template registered for t. Absent fields
// fall back to the template default, or to nothing. Render never fails; an
// unregistered type renders the empty string.
func Render(t TemplateType, ctx Context) string {
	if !t.Valid() {
		return ""
	}
	tpl := registry[t]
	var b strings.Builder
	tpl.write(&b, tpl.segments, ctx)
	return stripMarkers(b.String())
}

var markerReplacer = strings.NewReplacer(openField, "", closeField, "", openGroup, "", closeGroup, "")

// stripMarkers drops delimiter sequences that came in through context values.
// Removing one can join its neighbours into a new one ("{[[{"), hence the loop.
func stripMarkers(s string) string {
	for strings.Contains(s, openField) || strings.Contains(s, closeField) ||
		strings.Contains(s, openGroup) || strings.Contains(s, closeGroup) {
		s = markerReplacer.Replace(s)
	}
	return s
}

func (tpl template) resolve(f Field, ctx Context) (string, bool) {
	if v, ok := ctx.lookup(f); ok {
		return v, true
	}
	if d, ok := tpl.defaults[f]; ok {
		return d, true
	}
	return "", false
}

func (tpl template) write(b *strings.Builder, segments []segment, ctx Context) {
	for _, s := range segments {
		switch s.kind {
		case segLiteral:
			b.WriteString(s.literal)
		case segField:
			v, _ := tpl.resolve(s.field, ctx)
			b.WriteString(v)
		case segGroup:
			if tpl.complete(s.group, ctx) {
				tpl.write(b, s.group, ctx)
			}
		}
	}
}

func (tpl template) complete(group []segment, ctx Context) bool {
	for _, s := range group {
		if s.kind != segField {
			continue
		}
		if _, ok := tpl.resolve(s.field, ctx); !ok {
			return false
		}
	}
	return true
}

// mustCompile parses src at package initialisation. Any syntax error or
// unknown field name panics, so the registry can only hold valid templates.
func mustCompile(src string, defaults map[Field]string) template {
	segments, err := compile(src)
	if err != nil {
		panic(fmt.Sprintf("whatsapp: template %q: %v", src, err))
	}
	return template{segments: segments, defaults: defaults}
}

func compile(src string) ([]segment, error) {
	var (
		top     []segment
		group   []segment
		inGroup bool
	)
	emit := func(s segment) {
		if inGroup {
			group = append(group, s)
			return
		}
		top = append(top, s)
	}

	for len(src) > 0 {
		next := nextDelimiter(src)
		if next < 0 {
			emit(segment{kind: segLiteral, literal: src})
			break
		}
		if next > 0 {
			emit(segment{kind: segLiteral, literal: src[:next]})
			src = src[next:]
		}

		switch {
		case strings.HasPrefix(src, openField):
			end := strings.Index(src, closeField)
			if end < 0 {
				return nil, errors.New("unterminated placeholder")
			}
			name := strings.TrimSpace(src[len(openField):end])
			f, ok := fieldByName(name)
			if !ok {
				return nil, fmt.Errorf("unknown placeholder %q", name)
			}
			emit(segment{kind: segField, field: f})
			src = src[end+len(closeField):]
		case strings.HasPrefix(src, openGroup):
			if inGroup {
				return nil, errors.New("nested optional group")
			}
			inGroup = true
			group = nil
			src = src[len(openGroup):]
		case strings.HasPrefix(src, closeGroup):
			if !inGroup {
				return nil, errors.New("unbalanced optional group")
			}
			top = append(top, segment{kind: segGroup, group: group})
			inGroup = false
			src = src[len(closeGroup):]
		default:
			return nil, fmt.Errorf("stray delimiter at %q", src)
		}
	}
	if inGroup {
		return nil, errors.New("unterminated optional group")
	}
	return top, nil
}

func nextDelimiter(s string) int {
	next := -1
	for _, d := range []string{openField, closeField, openGroup, closeGroup} {
		if i := strings.Index(s, d); i >= 0 && (next < 0 || i < next) {
			next = i
		}
	}
	return next
}

func fieldByName(name string) (Field, bool) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), true
		}
	}
	return 0, false
}
