package cli

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newStylesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "styles",
		Aliases: []string{"helmets"},
		Short:   "List helmet styles",
		Args:    cobra.NoArgs,
		RunE:    stylesHandler,
	}
}

func stylesHandler(cmd *cobra.Command, args []string) error {
	c, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	resp, err := c.Styles(cmd.Context())
	if err != nil {
		return err
	}

	var data [][]string
	for _, s := range resp.Styles {
		def := ""
		if s.ID == resp.Default {
			def = "*"
		}
		data = append(data, []string{s.ID, s.Label, s.File, def})
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"ID", "LABEL", "FILE", "DEFAULT"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}
