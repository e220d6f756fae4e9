package editor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"scene-editor/internal/commands"
	"scene-editor/internal/editorconfig"
	"scene-editor/internal/fonts"
	"scene-editor/internal/hierarchy"
	"scene-editor/internal/outline"
)

// usage reports a malformed command line; the error matches commands.ErrUsage.
func usage(format string, args ...any) error {
	return fmt.Errorf("%w: %s", commands.ErrUsage, fmt.Sprintf(format, args...))
}

// registerCommands adds the console commands. Each one calls the same controller methods
// as the panels, so both paths log and refresh identically.
func (e *Editor) registerCommands() {
	r := e.cmds

	importFS := commands.NewFlagSet("import")
	r.Register("import", "<path>", importFS, func() error {
		if importFS.NArg() == 0 {
			return usage("import <path>")
		}
		return e.Import(strings.Join(importFS.Args(), " "))
	})

	selectFS := commands.NewFlagSet("select")
	add := selectFS.Bool("add", false, "toggle without clearing the selection")
	r.Register("select", "[-add] <name>", selectFS, func() error {
		if selectFS.NArg() != 1 {
			return usage("select [-add] <name>")
		}
		e.sel.SelectByName(selectFS.Arg(0), *add)
		return nil
	})

	searchFS := commands.NewFlagSet("search")
	r.Register("search", "<term>", searchFS, func() error {
		term := strings.Join(searchFS.Args(), " ")
		e.panels.searchTerm = term
		e.sel.SelectBySearch(term)
		return nil
	})

	r.Register("clear", "", nil, func() error {
		e.sel.Clear()
		return nil
	})

	r.Register("group", "", nil, func() error {
		e.sel.CreateGroup()
		return nil
	})

	r.Register("ungroup", "", nil, func() error {
		e.sel.ClearGroups()
		return nil
	})

	r.Register("groups", "", nil, func() error {
		groups := e.sel.Groups()
		if len(groups) == 0 {
			e.log.Info("groups: none")
		}
		for _, g := range groups {
			names := make([]string, 0, g.ChildCount())
			for _, c := range g.Children() {
				names = append(names, c.Name)
			}
			e.log.Info("%s: %s", g.Name, strings.Join(names, ", "))
		}
		return nil
	})

	selectGroupFS := commands.NewFlagSet("selectgroup")
	r.Register("selectgroup", "<name>", selectGroupFS, func() error {
		if selectGroupFS.NArg() != 1 {
			return usage("selectgroup <name>")
		}
		e.sel.SelectGroup(selectGroupFS.Arg(0))
		return nil
	})

	hierarchyFS := commands.NewFlagSet("hierarchy")
	htmlPath := hierarchyFS.String("html", "", "write the listing as HTML markup to this file")
	r.Register("hierarchy", "[-html path]", hierarchyFS, func() error {
		if *htmlPath == "" {
			for _, entry := range e.entries {
				mark := ""
				if entry.Selected {
					mark = " *"
				}
				e.log.Info("%s%s", entry.Label(), mark)
			}
			return nil
		}
		path, err := homedir.Expand(*htmlPath)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("hierarchy: %w", err)
		}
		markup := hierarchy.Render(e.graph.Root, hierarchy.Names(e.sel.SelectedNames()))
		if err := os.WriteFile(path, []byte(markup), 0644); err != nil {
			return fmt.Errorf("hierarchy: %w", err)
		}
		e.log.Info("hierarchy written to %s", path)
		return nil
	})

	gridFS := commands.NewFlagSet("grid")
	on := gridFS.Bool("on", false, "show the grid")
	off := gridFS.Bool("off", false, "hide the grid")
	r.Register("grid", "[-on|-off]", gridFS, func() error {
		switch {
		case *on && *off:
			return usage("grid [-on|-off]")
		case *on:
			e.view.SetGridVisible(true)
		case *off:
			e.view.SetGridVisible(false)
		default:
			e.view.SetGridVisible(!e.view.GridVisible)
		}
		e.log.Info("grid visible: %t", e.view.GridVisible)
		return nil
	})

	outlineFS := commands.NewFlagSet("outline")
	mode := outlineFS.String("mode", "", "shared or per-object")
	scale := outlineFS.Float64("scale", 0, "highlight scale factor, above 1")
	r.Register("outline", "[-mode shared|per-object] [-scale f]", outlineFS, func() error {
		if *mode == "" && *scale == 0 {
			e.log.Info("outline: mode %s, scale %.2f", e.outline.Mode, e.outline.Scale)
			return nil
		}
		if *mode != "" {
			m, ok := outline.ParseMode(*mode)
			if !ok {
				return usage("outline -mode shared|per-object")
			}
			e.outline.Mode = m
		}
		if *scale != 0 {
			if *scale <= 1 {
				return usage("outline -scale must be above 1")
			}
			e.outline.Scale = float32(*scale)
		}
		e.sel.Refresh()
		e.log.Info("outline: mode %s, scale %.2f", e.outline.Mode, e.outline.Scale)
		return nil
	})

	overlayFS := commands.NewFlagSet("overlay")
	r.Register("overlay", "fps|mem|stats", overlayFS, func() error {
		if overlayFS.NArg() != 1 {
			return usage("overlay fps|mem|stats")
		}
		switch overlayFS.Arg(0) {
		case "fps":
			e.debug.SetShowFPS(!e.debug.ShowFPS)
		case "mem":
			e.debug.SetShowMemAlloc(!e.debug.ShowMemAlloc)
		case "stats":
			e.debug.SetShowStats(!e.debug.ShowStats)
		default:
			return usage("overlay fps|mem|stats")
		}
		return nil
	})

	r.Register("save-prefs", "", nil, func() error {
		if e.prefsPath == "" {
			return errors.New("save-prefs: no preferences file configured")
		}
		if err := editorconfig.Save(e.prefsPath, e.CurrentPrefs()); err != nil {
			return err
		}
		e.log.Info("preferences saved to %s", e.prefsPath)
		return nil
	})

	r.Register("fonts", "", nil, func() error {
		for _, dir := range fonts.DefaultDirs {
			list, err := fonts.ScanDir(dir)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				e.log.Info("fonts: none in %s", dir)
			}
			for _, f := range list {
				e.log.Info("%s/%s", dir, f)
			}
		}
		return nil
	})

	r.Register("help", "", nil, func() error {
		for _, line := range r.Help() {
			e.log.Info("%s", line)
		}
		return nil
	})
}
