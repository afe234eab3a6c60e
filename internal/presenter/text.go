package presenter

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteText renders the view for a terminal.
func WriteText(w io.Writer, v View) error {
	bw := bufio.NewWriter(w)

	switch v.Phase {
	case PhaseIdle:
		if v.Notice != "" {
			fmt.Fprintf(bw, "! %s\n", v.Notice)
		}
		if v.HasArtifact {
			fmt.Fprintf(bw, "Ready for analysis: %s\n", v.ArtifactName)
		} else {
			fmt.Fprintln(bw, "No artifact selected. Choose a PNG, JPG or PDF.")
		}
	case PhaseProcessing:
		fmt.Fprintf(bw, "Directing your trailer for %s...\n", v.ArtifactName)
	case PhaseComplete:
		fmt.Fprintln(bw, v.Heading)
		fmt.Fprintln(bw, strings.Repeat("=", len(v.Heading)))
		for _, c := range v.Cards {
			fmt.Fprintf(bw, "\n[%d] %s (%s)\n", c.Number, strings.ToUpper(c.Mood), c.Duration)
			for _, f := range c.Fields {
				fmt.Fprintf(bw, "  %s: %s\n", f.Label, f.Value)
			}
		}
		if v.MediaURL != "" {
			fmt.Fprintf(bw, "\nVideo: %s\n", v.MediaURL)
		}
	}

	return bw.Flush()
}
