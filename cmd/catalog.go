package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	var (
		file  string
		brand string
		dump  bool
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List brands and holds",
		Example: `  # List brands
  climbcraft catalog

  # List the holds of one brand
  climbcraft catalog --brand "Teknik Handholds"

  # Print the built-in catalog as YAML, a starting point for --file
  climbcraft catalog --dump`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(file)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if dump {
				data, err := cat.Marshal()
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			defer tw.Flush()

			if brand == "" {
				fmt.Fprintln(tw, "ID\tBRAND\tGROUPS")
				for _, b := range cat.Brands {
					fmt.Fprintf(tw, "%s\t%s\t%d\n", b.ID, b.Title, len(b.Groups))
				}
				return nil
			}

			b, ok := cat.Brand(brand)
			if !ok {
				return fmt.Errorf("unknown brand %q", brand)
			}
			holds, err := cat.Holds(b)
			if err != nil {
				return err
			}
			fmt.Fprintln(tw, "ID\tGROUP\tHOLD")
			for _, h := range holds {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", h.ID, h.Group, h.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML catalog file (defaults to the built-in catalog)")
	cmd.Flags().StringVarP(&brand, "brand", "b", "", "Brand title or id")
	cmd.Flags().BoolVar(&dump, "dump", false, "Print the catalog as YAML")

	return cmd
}
