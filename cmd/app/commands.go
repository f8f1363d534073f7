package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/starford/contractviewer/internal"
	"github.com/starford/contractviewer/internal/api"
	"github.com/starford/contractviewer/internal/contract"
	"github.com/starford/contractviewer/internal/formservice"
	"github.com/starford/contractviewer/internal/mcpserver"
	"github.com/starford/contractviewer/internal/prompt"
	"github.com/starford/contractviewer/internal/render"
)

// Output formats of the import and fetch commands.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json or yaml",
		Value:   formatJSON,
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "File to write the exported document to, - for stdout",
		Value:   contract.ExportFilename,
	}
}

type importedRecord struct {
	Record   map[string]string  `json:"record" yaml:"record"`
	Metadata *contract.Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Source   string             `json:"source,omitempty" yaml:"source,omitempty"`
}

// readInput reads a named file, or stdin for "-".
func readInput(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("missing input file")
	}
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// writeOutput writes data to a named file, or stdout for "-".
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	slog.Info("document written", slog.String("path", path), slog.Int("bytes", len(data)))
	return nil
}

func encodeImported(w io.Writer, format string, out importedRecord) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	case formatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// decodeRecordFile reads a flat record written as JSON or YAML, either bare
// or under a "record" key as produced by the import command.
func decodeRecordFile(data []byte) (contract.Record, error) {
	var wrapped struct {
		Record map[string]string `yaml:"record"`
	}
	if err := yaml.Unmarshal(data, &wrapped); err == nil && wrapped.Record != nil {
		return contract.FromMap(wrapped.Record)
	}
	var flat map[string]string
	if err := yaml.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return contract.FromMap(flat)
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Map a contract document to the flat field record",
		ArgsUsage: "<document.json|->",
		Flags:     []cli.Flag{formatFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			data, err := readInput(path)
			if err != nil {
				return err
			}
			record, meta, err := contract.Parse(data)
			if err != nil {
				return err
			}
			return encodeImported(os.Stdout, cmd.String("format"), importedRecord{
				Record:   record.Map(),
				Metadata: meta,
				Source:   path,
			})
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Build the canonical contract document from a flat record (JSON or YAML)",
		ArgsUsage: "<record.json|record.yaml|->",
		Flags:     []cli.Flag{outputFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			data, err := readInput(cmd.Args().First())
			if err != nil {
				return err
			}
			record, err := decodeRecordFile(data)
			if err != nil {
				return err
			}
			out, err := contract.Export(record).MarshalIndent()
			if err != nil {
				return err
			}
			return writeOutput(cmd.String("output"), out)
		},
	}
}

func fetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Download the stored contract document and map it to the flat record",
		Flags: []cli.Flag{
			formatFlag(),
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "Print the stored document unchanged",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			fetch, err := newFetchHandler(cfg)
			if err != nil {
				return err
			}
			obj, err := fetch.Fetch(ctx)
			if err != nil {
				return err
			}
			if cmd.Bool("raw") {
				_, err := os.Stdout.Write(obj.Data)
				return err
			}
			record, meta := contract.Import(obj.Data)
			return encodeImported(os.Stdout, cmd.String("format"), importedRecord{
				Record:   record.Map(),
				Metadata: meta,
				Source:   obj.Path,
			})
		},
	}
}

func editCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Edit a contract document field by field and export the result",
		ArgsUsage: "[document.json]",
		Flags: []cli.Flag{
			outputFlag(),
			&cli.BoolFlag{
				Name:  "reset",
				Usage: "Start from an empty form (asks for confirmation)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc := formservice.New()
			driver := prompt.NewSurveyDriver()

			if path := cmd.Args().First(); path != "" {
				data, err := readInput(path)
				if err != nil {
					return err
				}
				if _, err := svc.Load(ctx, path, data); err != nil {
					return err
				}
			}
			if cmd.Bool("reset") {
				cleared, err := prompt.ResetForm(ctx, svc, driver)
				if err != nil {
					return err
				}
				if !cleared {
					slog.Info("reset declined, keeping loaded values")
				}
			}

			changed, err := prompt.EditRecord(ctx, svc, driver)
			if err != nil {
				return err
			}
			slog.Info("form edited", slog.Int("changed", changed))

			out, err := svc.Export()
			if err != nil {
				return err
			}
			return writeOutput(cmd.String("output"), out)
		},
	}
}

func printCommand() *cli.Command {
	return &cli.Command{
		Name:      "print",
		Usage:     "Render a contract document as a printout",
		ArgsUsage: "<document.json|->",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "html",
				Usage: "Render a printable HTML page instead of text",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			data, err := readInput(cmd.Args().First())
			if err != nil {
				return err
			}
			record, meta, err := contract.Parse(data)
			if err != nil {
				return err
			}
			if cmd.Bool("html") {
				return render.HTML(os.Stdout, record, meta)
			}
			return render.Text(os.Stdout, record, meta)
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the contract tools over MCP on stdio",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// stdout carries the protocol.
			slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

			var fetcher mcpserver.Fetcher
			cfg, err := loadConfig(cmd)
			if err == nil {
				fetcher, err = newFetchHandler(cfg)
			}
			if err != nil {
				slog.Warn("storage unavailable, fetch_contract disabled", slog.String("error", err.Error()))
				fetcher = nil
			}
			return mcpserver.New(fetcher).ServeStdio()
		},
	}
}

func newFetchHandler(cfg *internal.Config) (*api.FetchHandler, error) {
	store, err := internal.NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	return api.NewFetchHandler(store, cfg.Fetch.Handler()), nil
}
