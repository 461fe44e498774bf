// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli"
)

var workspaceFlag = cli.StringFlag{
	Name:  "workspace",
	Usage: "workspace holding the resource",
}

// oneName returns the single positional argument naming a resource.
func oneName(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", cli.NewExitError("exactly one name is required", 2)
	}
	return c.Args().First(), nil
}

// scoped returns the --workspace flag and the single positional name.
func scoped(c *cli.Context) (workspace, name string, err error) {
	workspace = c.String("workspace")
	if workspace == "" {
		return "", "", cli.NewExitError("--workspace is required", 2)
	}
	name, err = oneName(c)
	return
}

func (a *app) workspaceCommand() cli.Command {
	return cli.Command{
		Name:  "workspace",
		Usage: "manage workspaces",
		Subcommands: []cli.Command{
			{
				Name:      "create",
				Usage:     "create a workspace",
				ArgsUsage: "name",
				Action: a.action(func(c *cli.Context) error {
					name, err := oneName(c)
					if err != nil {
						return err
					}
					return a.print(a.Service.CreateWorkspace(name))
				}),
			},
			{
				Name:      "delete",
				Usage:     "delete a workspace and everything in it",
				ArgsUsage: "name",
				Action: a.action(func(c *cli.Context) error {
					name, err := oneName(c)
					if err != nil {
						return err
					}
					return a.print(a.Service.DeleteWorkspace(name))
				}),
			},
			{
				Name:  "list",
				Usage: "list workspace names",
				Action: a.action(func(c *cli.Context) error {
					workspaces, err := a.Service.GetWorkspaces()
					if err != nil {
						return cli.NewExitError(err.Error(), 1)
					}
					names := make([]string, len(workspaces))
					for i, ws := range workspaces {
						names[i] = ws.Name
					}
					return a.printValue(names)
				}),
			},
		},
	}
}

func (a *app) storeCommand() cli.Command {
	return cli.Command{
		Name:  "store",
		Usage: "manage stores",
		Subcommands: []cli.Command{
			{
				Name:      "delete",
				Usage:     "delete a store and its layers",
				ArgsUsage: "name",
				Flags:     []cli.Flag{workspaceFlag},
				Action: a.action(func(c *cli.Context) error {
					workspace, name, err := scoped(c)
					if err != nil {
						return err
					}
					return a.print(a.Service.DeleteStore(workspace, name))
				}),
			},
		},
	}
}

func (a *app) layerCommand() cli.Command {
	return cli.Command{
		Name:  "layer",
		Usage: "manage layers",
		Subcommands: []cli.Command{
			{
				Name:      "delete",
				Usage:     "delete a layer and its resource",
				ArgsUsage: "name",
				Flags:     []cli.Flag{workspaceFlag},
				Action: a.action(func(c *cli.Context) error {
					workspace, name, err := scoped(c)
					if err != nil {
						return err
					}
					return a.print(a.Service.DeleteLayer(workspace, name))
				}),
			},
		},
	}
}

// styleParams parses key=value pairs.
func styleParams(pairs []string) (map[string]interface{}, error) {
	params := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("style parameter %q is not key=value", pair)
		}
		params[parts[0]] = parts[1]
	}
	return params, nil
}

var styleFlags = []cli.Flag{
	workspaceFlag,
	cli.StringFlag{
		Name:  "kind",
		Usage: "point, line, or polygon",
	},
	cli.StringSliceFlag{
		Name:  "param",
		Usage: "key=value style parameter, such as color=#FF0000",
	},
}

func (a *app) styleCommand() cli.Command {
	styleAction := func(update bool) cli.ActionFunc {
		return a.action(func(c *cli.Context) error {
			workspace, name, err := scoped(c)
			if err != nil {
				return err
			}
			params, err := styleParams(c.StringSlice("param"))
			if err != nil {
				return cli.NewExitError(err.Error(), 2)
			}
			if update {
				return a.print(a.Service.UpdateStyle(workspace, name, c.String("kind"), params))
			}
			return a.print(a.Service.CreateStyle(workspace, name, c.String("kind"), params))
		})
	}
	return cli.Command{
		Name:  "style",
		Usage: "manage styles",
		Subcommands: []cli.Command{
			{
				Name:      "create",
				Usage:     "create or replace a style",
				ArgsUsage: "name",
				Flags:     styleFlags,
				Action:    styleAction(false),
			},
			{
				Name:      "update",
				Usage:     "replace an existing style",
				ArgsUsage: "name",
				Flags:     styleFlags,
				Action:    styleAction(true),
			},
			{
				Name:      "delete",
				Usage:     "delete a style",
				ArgsUsage: "name",
				Flags:     []cli.Flag{workspaceFlag},
				Action: a.action(func(c *cli.Context) error {
					workspace, name, err := scoped(c)
					if err != nil {
						return err
					}
					return a.print(a.Service.DeleteStyle(workspace, name))
				}),
			},
		},
	}
}
