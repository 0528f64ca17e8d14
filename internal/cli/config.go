package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Davincible/goppa/pkg/config"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the configuration and manage parameter profiles",
		Long: `Inspect the configuration file and manage named Goppa parameter
profiles.

The configuration lives at $GOPPA_CONFIG, $XDG_CONFIG_HOME/goppa/config.json
or ~/.config/goppa/config.json, and is created with defaults on first use.
Profiles are stored next to it in profiles.json.`,
	}

	cmd.AddCommand(
		newConfigShowCommand(a),
		newConfigProfilesCommand(a),
		newConfigAddProfileCommand(a),
		newConfigRemoveProfileCommand(a),
	)

	return cmd
}

func newConfigShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if a.json {
				return writeJSON(w, a.cfg())
			}
			sectionColor.Fprintf(w, "# %s\n", a.cm.Path())
			return writeJSON(w, a.cfg())
		},
	}
}

func newConfigProfilesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List parameter profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles := a.cm.ListProfiles()
			w := cmd.OutOrStdout()
			if a.json {
				return writeJSON(w, profiles)
			}

			fmt.Fprintln(w)
			headerColor.Fprintln(w, "=== Parameter Profiles ===")
			for _, p := range profiles {
				n := 1 << p.FieldDegree
				fmt.Fprintf(w, "  %-16s m=%-3d t=%-4d n=%-6d k=%-6d %s\n",
					p.Name, p.FieldDegree, p.GoppaDegree, n, n-p.FieldDegree*p.GoppaDegree, p.Description)
				if len(p.Tags) > 0 {
					fmt.Fprintf(w, "  %-16s tags: %s\n", "", strings.Join(p.Tags, ", "))
				}
			}
			return nil
		},
	}
}

func newConfigAddProfileCommand(a *app) *cobra.Command {
	var (
		m, t        int
		description string
		tags        []string
	)

	cmd := &cobra.Command{
		Use:     "add-profile NAME",
		Short:   "Add or replace a parameter profile",
		Example: `  goppa config add-profile toy -m 6 -t 3 --description "fits on a screen"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := &config.ParameterProfile{
				Name:        args[0],
				Description: description,
				FieldDegree: m,
				GoppaDegree: t,
				Tags:        tags,
			}
			if err := a.cm.AddProfile(profile); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if a.json {
				return writeJSON(w, profile)
			}
			fmt.Fprintf(w, "%s profile %s saved\n", checkMark(true), profile.Name)
			return nil
		},
	}

	cmd.Flags().IntVarP(&m, "field-degree", "m", 0, "Field degree m")
	cmd.Flags().IntVarP(&t, "goppa-degree", "t", 0, "Goppa polynomial degree t")
	cmd.Flags().StringVar(&description, "description", "", "Profile description")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Comma-separated tags")
	_ = cmd.MarkFlagRequired("field-degree")
	_ = cmd.MarkFlagRequired("goppa-degree")

	return cmd
}

func newConfigRemoveProfileCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm-profile NAME",
		Aliases: []string{"remove-profile"},
		Short:   "Remove a parameter profile",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cm.DeleteProfile(args[0]); err != nil {
				return err
			}
			if a.json {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"removed": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s profile %s removed\n", checkMark(true), args[0])
			return nil
		},
	}
}
