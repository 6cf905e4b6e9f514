package api

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jmartin/resume-dash/internal/section"
	"github.com/jmartin/resume-dash/internal/types"
)

// Workspace is everything the interactive commands need up front: the
// section library, saved presets, and matcher configs.
type Workspace struct {
	Sections       []section.Section
	Presets        []types.Preset
	SectionConfigs []types.SectionConfig
}

// FetchWorkspace loads the three collections in parallel. Any failure
// cancels the rest and is returned.
func (c *Client) FetchWorkspace(ctx context.Context) (*Workspace, error) {
	var ws Workspace
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sections, err := c.ListSections(ctx)
		ws.Sections = sections
		return err
	})
	g.Go(func() error {
		presets, err := c.ListPresets(ctx)
		ws.Presets = presets
		return err
	})
	g.Go(func() error {
		configs, err := c.ListSectionConfigs(ctx)
		ws.SectionConfigs = configs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ws, nil
}
