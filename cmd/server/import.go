package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/seth-walker/HRIS/internal/dto"
	"github.com/seth-walker/HRIS/internal/services"
)

type importOutput struct {
	Command    string                     `json:"command"`
	File       string                     `json:"file"`
	DurationMS int64                      `json:"duration_ms"`
	Result     *services.BulkImportResult `json:"result"`
}

func newImportCmd() *cobra.Command {
	var (
		file  string
		actor string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk import employees from a JSON file",
		Long: "Creates or updates employees matched by email. The file holds either a JSON array " +
			"of employee rows or an object with an \"employees\" array.",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readImportFile(file)
			if err != nil {
				return err
			}

			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			svc := a.services()
			principal, err := svc.auth.SystemActor(cmd.Context(), actor)
			if err != nil {
				return fmt.Errorf("resolve --actor %q: %w", actor, err)
			}

			start := time.Now()
			result, err := svc.employees.BulkImport(cmd.Context(), principal, req.ToInput())
			if err != nil {
				return err
			}

			return writeJSON(importOutput{
				Command:    "import",
				File:       file,
				DurationMS: time.Since(start).Milliseconds(),
				Result:     result,
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to the JSON file (required)")
	cmd.Flags().StringVar(&actor, "actor", "", "Email of the admin or hr user the import runs as (required)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("actor")
	return cmd
}

func readImportFile(path string) (dto.BulkImportRequest, error) {
	var req dto.BulkImportRequest

	raw, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read import file: %w", err)
	}

	raw = bytes.TrimSpace(raw)
	if bytes.HasPrefix(raw, []byte("[")) {
		err = json.Unmarshal(raw, &req.Employees)
	} else {
		err = json.Unmarshal(raw, &req)
	}
	if err != nil {
		return req, fmt.Errorf("decode import file: %w", err)
	}
	return req, nil
}
