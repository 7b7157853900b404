package main

import (
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/patrickprogramme/pltranscripts/internal/app"
	"github.com/patrickprogramme/pltranscripts/internal/markdown"
	"github.com/patrickprogramme/pltranscripts/internal/transcript"
	"github.com/patrickprogramme/pltranscripts/pkg/model"
)

func newInspectCommand() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:         "inspect <file>",
		Short:       "Lister les entrées d'un document consolidé",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := app.Inspect(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asYAML {
				return writeYAML(out, doc)
			}
			fmt.Fprintf(out, "Playlist : %s\n", doc.Title)
			fmt.Fprintln(out, inspectTable(doc))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "afficher le document relu en YAML")
	return cmd
}

func inspectTable(doc *model.PlaylistDocument) string {
	headers := []string{"#", "Titre", "Blocs", "Début", "Fin", "Caractères"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight}

	rows := make([][]string, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		if !e.HasTranscript() {
			rows = append(rows, []string{strconv.Itoa(e.Index), e.Title, "0", "-", "-", markdown.NoTranscriptMarker})
			continue
		}
		first, last := e.Chunks[0], e.Chunks[len(e.Chunks)-1]
		rows = append(rows, []string{
			strconv.Itoa(e.Index),
			e.Title,
			strconv.Itoa(len(e.Chunks)),
			markdown.FormatTimestamp(first.Start),
			markdown.FormatTimestamp(last.End),
			strconv.Itoa(utf8.RuneCountInString(transcript.Join(e.Chunks))),
		})
	}
	return renderTable(headers, rows, aligns)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encodage YAML : %w", err)
	}
	return enc.Close()
}
