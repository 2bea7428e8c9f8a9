package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tenantready/internal/auth"
	"github.com/felixgeelhaar/tenantready/internal/collector"
	"github.com/felixgeelhaar/tenantready/internal/domain"
	"github.com/felixgeelhaar/tenantready/internal/ux"
)

var areasCmd = &cobra.Command{
	Use:   "areas",
	Short: "List the assessable service areas",
	Long: `List every service area the assessment covers, the credential flow
each one requires, and the sub-resources it collects.`,
	RunE: runAreas,
}

var areasFormat string

func init() {
	areasCmd.Flags().StringVarP(&areasFormat, "format", "f", "text", "output format (text, json, yaml)")
	rootCmd.AddCommand(areasCmd)
}

type areaInfo struct {
	Name        string   `json:"name" yaml:"name"`
	DisplayName string   `json:"display_name" yaml:"display_name"`
	Flow        string   `json:"flow" yaml:"flow"`
	Resources   []string `json:"resources" yaml:"resources"`
}

func runAreas(cmd *cobra.Command, args []string) error {
	registry, err := collector.DefaultRegistry(allStubFetchers())
	if err != nil {
		return err
	}

	var infos []areaInfo
	for _, area := range domain.AllAreas() {
		adapter, ok := registry.For(area)
		if !ok {
			continue
		}
		var resources []string
		for _, key := range adapter.Resources() {
			resources = append(resources, string(key))
		}
		infos = append(infos, areaInfo{
			Name:        area.String(),
			DisplayName: area.DisplayName(),
			Flow:        auth.FlowFor(area).String(),
			Resources:   resources,
		})
	}

	if areasFormat == "text" {
		var b strings.Builder
		for _, info := range infos {
			fmt.Fprintf(&b, "%-20s %-22s %s\n", info.Name, info.Flow, strings.Join(info.Resources, ", "))
		}
		formatter, err := ux.NewFormatter("text", &ux.FormatterOptions{Writer: cmd.OutOrStdout()})
		if err != nil {
			return err
		}
		return formatter.Format(strings.TrimRight(b.String(), "\n"))
	}

	formatter, err := ux.NewFormatter(areasFormat, &ux.FormatterOptions{Writer: cmd.OutOrStdout()})
	if err != nil {
		return err
	}
	return formatter.Format(infos)
}

// allStubFetchers backs the informational registry used for listing; the
// adapters are never asked to collect here.
func allStubFetchers() map[domain.Area]collector.Fetcher {
	fetchers := make(map[domain.Area]collector.Fetcher, len(domain.AllAreas()))
	for _, area := range domain.AllAreas() {
		fetchers[area] = collector.NewFileFetcher("-", nil)
	}
	return fetchers
}
