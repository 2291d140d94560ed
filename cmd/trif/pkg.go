package main

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/trif-lang/trif/internal/pkgmgr"
)

type pkgCmd struct {
	Init    pkgInitCmd    `cmd:"" help:"Scaffold a new package with a manifest and entry module."`
	Publish pkgPublishCmd `cmd:"" help:"Publish a package to the local registry."`
	Install pkgInstallCmd `cmd:"" help:"Install a published package."`
	List    pkgListCmd    `cmd:"" help:"List installed packages."`
	Search  pkgSearchCmd  `cmd:"" help:"Search the registry by package name."`
}

type pkgInitCmd struct {
	Path string `arg:"" optional:"" help:"Package directory to create." default:"."`
}

func (c *pkgInitCmd) Run(log *slog.Logger) error {
	return pkgmgr.New(log).Init(c.Path)
}

type pkgPublishCmd struct {
	Path string `arg:"" optional:"" help:"Package directory to publish." default:"."`
}

func (c *pkgPublishCmd) Run(log *slog.Logger) error {
	manifest, err := pkgmgr.New(log).Publish(c.Path)
	if err != nil {
		return err
	}
	fmt.Printf("Published %s@%s\n", manifest.Name, manifest.Version)
	return nil
}

type pkgInstallCmd struct {
	Package string `arg:"" help:"Package to install, as name or name@version."`
}

func (c *pkgInstallCmd) Run(log *slog.Logger) error {
	manifest, err := pkgmgr.New(log).Install(c.Package)
	if err != nil {
		return err
	}
	fmt.Printf("Installed %s@%s\n", manifest.Name, manifest.Version)
	return nil
}

type pkgListCmd struct{}

func (c *pkgListCmd) Run(log *slog.Logger) error {
	installed, err := pkgmgr.New(log).ListInstalled()
	if err != nil {
		return err
	}
	if len(installed) == 0 {
		fmt.Println("No packages installed.")
		return nil
	}
	names := make([]string, 0, len(installed))
	for name := range installed {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s  %s\n", name, strings.Join(installed[name], ", "))
	}
	return nil
}

type pkgSearchCmd struct {
	Query string `arg:"" help:"Name fragment to match." optional:""`
}

func (c *pkgSearchCmd) Run(log *slog.Logger) error {
	results, err := pkgmgr.New(log).Search(c.Query)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No matching packages.")
		return nil
	}
	for _, result := range results {
		fmt.Printf("%s@%s\n", result.Name, result.Version)
	}
	return nil
}
