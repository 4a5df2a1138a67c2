// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf2md-legal/internal/format"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect the keyword profile used by the line classifier",
	Long: `A profile holds the metadata markers, heading keywords and boilerplate
lines the classifier uses. The built-in profile targets the Civil Code of
Québec; pass --profile with a YAML file to override any of its fields.`,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective profile as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := format.LoadProfile(viper.GetString("profile"))
		if err != nil {
			return err
		}
		data, err := p.YAML()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

var profileRulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the classification rules in evaluation order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := format.LoadProfile(viper.GetString("profile"))
		if err != nil {
			return err
		}
		c, err := format.NewClassifier(p)
		if err != nil {
			return err
		}
		for i, r := range c.Rules() {
			level := ""
			if r.Level > 0 {
				level = fmt.Sprintf(" (level %d)", r.Level)
			}
			fmt.Printf("%2d. %-18s %s%s\n", i+1, r.Name, r.Kind, level)
		}
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileRulesCmd)
	rootCmd.AddCommand(profileCmd)
}
