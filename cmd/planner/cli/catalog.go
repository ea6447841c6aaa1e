package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mealplanner/recipes"
)

func catalogCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the recipe catalog",
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")

	// reader runs fn against the configured catalog and prints its result.
	reader := func(fn func(ctx context.Context, c recipes.Reader, args []string) (any, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			c, closeCatalog, err := openCatalog(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer closeCatalog()

			v, err := fn(cmd.Context(), c, args)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), v, asJSON)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every recipe",
			Args:  cobra.NoArgs,
			RunE: reader(func(ctx context.Context, c recipes.Reader, _ []string) (any, error) {
				return c.All(ctx)
			}),
		},
		&cobra.Command{
			Use:   "search <query>",
			Short: "Find recipes by name",
			Args:  cobra.MinimumNArgs(1),
			RunE: reader(func(ctx context.Context, c recipes.Reader, args []string) (any, error) {
				return c.SearchByName(ctx, strings.Join(args, " "))
			}),
		},
		&cobra.Command{
			Use:   "ingredient <item>",
			Short: "Find recipes using an ingredient",
			Args:  cobra.MinimumNArgs(1),
			RunE: reader(func(ctx context.Context, c recipes.Reader, args []string) (any, error) {
				return c.SearchByIngredient(ctx, strings.Join(args, " "))
			}),
		},
		&cobra.Command{
			Use:   "filter <tag>...",
			Short: "Find recipes carrying any of the tags",
			Args:  cobra.MinimumNArgs(1),
			RunE: reader(func(ctx context.Context, c recipes.Reader, args []string) (any, error) {
				return c.FilterByTags(ctx, args)
			}),
		},
		&cobra.Command{
			Use:   "budget <amount>",
			Short: "List recipes costing at most amount, cheapest first",
			Args:  cobra.ExactArgs(1),
			RunE: reader(func(ctx context.Context, c recipes.Reader, args []string) (any, error) {
				amount, err := recipes.ParsePrice(args[0])
				if err != nil {
					return nil, err
				}
				return c.ByBudget(ctx, amount)
			}),
		},
		&cobra.Command{
			Use:   "details <name>",
			Short: "Show a recipe",
			Args:  cobra.MinimumNArgs(1),
			RunE: reader(func(ctx context.Context, c recipes.Reader, args []string) (any, error) {
				return c.Get(ctx, strings.Join(args, " "))
			}),
		},
		&cobra.Command{
			Use:   "tags",
			Short: "Count recipes per dietary tag",
			Args:  cobra.NoArgs,
			RunE: reader(func(ctx context.Context, c recipes.Reader, _ []string) (any, error) {
				all, err := c.All(ctx)
				if err != nil {
					return nil, err
				}
				catalog, err := recipes.New(all)
				if err != nil {
					return nil, err
				}
				return catalog.Tags(), nil
			}),
		},
	)
	return cmd
}

func printResult(out io.Writer, v any, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer w.Flush()

	switch v := v.(type) {
	case []recipes.Recipe:
		fmt.Fprintln(w, "NAME\tCOST\tTAGS")
		for _, r := range v {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, r.TotalCost(), strings.Join(r.Tags, ", "))
		}
	case []recipes.Costed:
		fmt.Fprintln(w, "NAME\tCOST")
		for _, c := range v {
			fmt.Fprintf(w, "%s\t%s\n", c.Recipe.Name, c.TotalCost)
		}
	case []recipes.TagCount:
		fmt.Fprintln(w, "TAG\tRECIPES")
		for _, tc := range v {
			fmt.Fprintf(w, "%s\t%d\n", tc.Tag, tc.Count)
		}
	case recipes.Recipe:
		fmt.Fprintf(w, "%s\t%s\n", v.Name, v.TotalCost())
		fmt.Fprintf(w, "tags\t%s\n", strings.Join(v.Tags, ", "))
		for _, ing := range v.Ingredients {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", ing.Item, ing.Quantity, ing.Price)
		}
	default:
		return fmt.Errorf("cannot print %T", v)
	}
	return nil
}
