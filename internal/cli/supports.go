package cli

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/bookproc/internal/logfields"
	"git.home.luguber.info/inful/bookproc/internal/preprocess"
)

// SupportsCmd answers mdBook's renderer handshake through the exit code.
type SupportsCmd struct {
	Renderer string `arg:"" help:"Renderer name, e.g. html"`
}

// Run executes the supports command.
func (s *SupportsCmd) Run(g *Global, root *CLI) error {
	f, err := g.Registry.Get(root.Preprocessor)
	if err != nil {
		return err
	}
	supported := preprocess.SupportsRenderer(f, s.Renderer)
	slog.Debug("Renderer query",
		logfields.Preprocessor(f.Name()),
		logfields.Renderer(s.Renderer),
		slog.Bool("supported", supported))
	if !supported {
		return errUnsupported
	}
	return nil
}

// ListCmd prints the registered preprocessor names.
type ListCmd struct{}

// Run executes the list command.
func (l *ListCmd) Run(g *Global) error {
	for _, name := range g.Registry.Names() {
		if _, err := fmt.Fprintln(g.Stdout, name); err != nil {
			return err
		}
	}
	return nil
}
