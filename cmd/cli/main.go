package main

import (
	"fmt"
	"os"

	"github.com/nimasrn/clinic-whatsapp/internal/config"
	"github.com/nimasrn/clinic-whatsapp/internal/whatsapp"
	"github.com/nimasrn/clinic-whatsapp/pkg/logger"
	"github.com/nimasrn/clinic-whatsapp/pkg/pg"
	"github.com/spf13/cobra"
)

func main() {
	defer logger.Sync()
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "clinic-whatsapp",
		Short:        "WhatsApp click-to-chat tooling for the clinic dashboard",
		SilenceUsage: true,
	}
	root.AddCommand(migrateCmd())
	root.AddCommand(normalizeCmd())
	root.AddCommand(linkCmd())
	return root
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			envPath, _ := cmd.Flags().GetString("env")
			dir, _ := cmd.Flags().GetString("dir")

			if _, err := os.Stat(envPath); err != nil {
				logger.Warn("env file not found, using the environment only", "path", envPath)
				envPath = ""
			}
			if err := config.Load(envPath); err != nil {
				return err
			}
			if err := pg.Migrate(config.Get().WriteDB(), dir); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied successfully.")
			return nil
		},
	}
	cmd.Flags().String("env", ".env", "Path to the env file")
	cmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	return cmd
}

func normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <phone>...",
		Short: "Print the canonical WhatsApp number of each stored phone",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, raw := range args {
				phone, err := whatsapp.Normalize(raw)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%q\terror: %v\n", raw, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%q\t%s\n", raw, phone)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d phones could not be normalized", failed, len(args))
			}
			return nil
		},
	}
}

func linkCmd() *cobra.Command {
	var (
		phone    string
		template string
		baseURL  string
		tctx     whatsapp.Context
	)
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Render a template and print its click-to-chat link",
		RunE: func(cmd *cobra.Command, args []string) error {
			tt, err := whatsapp.ParseTemplateType(template)
			if err != nil {
				return err
			}
			canonical, err := whatsapp.Normalize(phone)
			if err != nil {
				return err
			}
			builder, err := whatsapp.NewLinkBuilder(baseURL)
			if err != nil {
				return err
			}
			link, err := builder.Build(canonical, whatsapp.Render(tt, tctx))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "Patient phone as stored")
	cmd.Flags().StringVar(&template, "template", "", "Template type (reminder, confirmation, follow_up, birthday, cancellation, notice)")
	cmd.Flags().StringVar(&baseURL, "base-url", whatsapp.DefaultBaseURL, "Click-to-chat base URL")
	cmd.Flags().StringVar(&tctx.PatientName, "patient", "", "Patient name")
	cmd.Flags().StringVar(&tctx.Date, "date", "", "Appointment date")
	cmd.Flags().StringVar(&tctx.Time, "time", "", "Appointment time")
	cmd.Flags().StringVar(&tctx.ProfessionalName, "professional", "", "Professional name")
	cmd.Flags().StringVar(&tctx.ClinicName, "clinic", "", "Clinic name")
	cmd.Flags().StringVar(&tctx.Custom, "custom", "", "Free text for the notice template")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}
