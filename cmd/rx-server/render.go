package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sankatmochan/rx/internal/config"
	"github.com/sankatmochan/rx/internal/domain/prescription"
	"github.com/sankatmochan/rx/internal/domain/prescription/document"
)

func renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a prescription JSON file to PDF without a database",
		Long: "Render uses the same theme, clinic branding and fonts as serve " +
			"(PDF_THEME, CLINIC_*, PLATFORM_LABEL, PDF_FONT_*).",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("in")
			out, _ := cmd.Flags().GetString("out")
			theme, _ := cmd.Flags().GetString("theme")
			raw, _ := cmd.Flags().GetBool("raw")

			cfg, err := config.LoadOffline()
			if err != nil {
				return err
			}
			if theme != "" {
				cfg.PDFTheme = theme
			}

			p, err := readRecord(in, cmd.InOrStdin())
			if err != nil {
				return err
			}
			doc, err := renderRecord(cfg, p, raw, time.Now().UTC())
			if err != nil {
				return err
			}
			if out == "" {
				out = p.Filename()
			}
			if err := os.WriteFile(out, doc, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", out, len(doc))
			return nil
		},
	}
	cmd.Flags().String("in", "-", "Prescription JSON file, - for stdin")
	cmd.Flags().String("out", "", "Output PDF path (default <id>.pdf)")
	cmd.Flags().String("theme", "", "Layout theme: spacious or compact (default PDF_THEME)")
	cmd.Flags().Bool("raw", false, "Leave content streams uncompressed")
	return cmd
}

func readRecord(path string, stdin io.Reader) (*prescription.Prescription, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var p prescription.Prescription
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode prescription: %w", err)
	}
	return &p, nil
}

func renderRecord(cfg *config.Config, p *prescription.Prescription, raw bool, now time.Time) ([]byte, error) {
	r, err := newRenderer(cfg, document.WithCompression(!raw))
	if err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = "DRAFT"
	}
	return r.Render(p, now)
}
