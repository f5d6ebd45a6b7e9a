package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
)

// printMarkdown renders markdown for the terminal, or prints it as is when
// it cannot be rendered.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		log.Debug().Err(err).Msg("cannot create markdown renderer")
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		log.Debug().Err(err).Msg("cannot render markdown")
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
