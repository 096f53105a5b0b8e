package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"MiniCatalog/internal/catalog"
	"MiniCatalog/pkg/kit"
)

// productFlags binds the editable product fields. Price and stock are kept
// as text so they reach decimal without a float round trip.
type productFlags struct {
	title       string
	description string
	price       string
	thumbnail   string
	code        string
	stock       string
	raw         string
}

func (f *productFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "product title")
	fs.StringVar(&f.description, "description", "", "product description")
	fs.StringVar(&f.price, "price", "", "unit price, e.g. 1.50")
	fs.StringVar(&f.thumbnail, "thumbnail", "", "thumbnail path or URL")
	fs.StringVar(&f.code, "code", "", "unique product code")
	fs.StringVar(&f.stock, "stock", "", "units in stock")
	fs.StringVar(&f.raw, "json", "", "fields as a JSON object instead of flags")
}

// parseNumber reports a malformed value as an invalid field. Empty text is
// the zero Number, which validation then flags as missing.
func parseNumber(field, s string) (catalog.Number, error) {
	if s == "" {
		return catalog.Number{}, nil
	}
	n, err := catalog.NewNumber(s)
	if err != nil {
		return catalog.Number{}, fmt.Errorf("%w: %s %q is not a number", catalog.ErrValidation, field, s)
	}
	return n, nil
}

func (f *productFlags) draft() (catalog.Draft, error) {
	if f.raw != "" {
		return catalog.DecodeDraft(strings.NewReader(f.raw))
	}

	price, err := parseNumber("price", f.price)
	if err != nil {
		return catalog.Draft{}, err
	}
	stock, err := parseNumber("stock", f.stock)
	if err != nil {
		return catalog.Draft{}, err
	}
	return catalog.Draft{
		Title:       f.title,
		Description: f.description,
		Price:       price,
		Thumbnail:   f.thumbnail,
		Code:        f.code,
		Stock:       stock,
	}, nil
}

// patch includes only the flags set on the command line.
func (f *productFlags) patch(fs *pflag.FlagSet) (catalog.Patch, error) {
	if f.raw != "" {
		return catalog.DecodePatch(strings.NewReader(f.raw))
	}

	var p catalog.Patch
	if fs.Changed("title") {
		p.Title = &f.title
	}
	if fs.Changed("description") {
		p.Description = &f.description
	}
	if fs.Changed("price") {
		price, err := parseNumber("price", f.price)
		if err != nil {
			return catalog.Patch{}, err
		}
		p.Price = &price
	}
	if fs.Changed("thumbnail") {
		p.Thumbnail = &f.thumbnail
	}
	if fs.Changed("code") {
		p.Code = &f.code
	}
	if fs.Changed("stock") {
		stock, err := parseNumber("stock", f.stock)
		if err != nil {
			return catalog.Patch{}, err
		}
		p.Stock = &stock
	}
	return p, nil
}

func newAddCmd(a *app) *cobra.Command {
	var flags productFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := flags.draft()
			if err != nil {
				return err
			}

			p, err := a.store.Add(cmd.Context(), d)
			if err != nil {
				return err
			}
			return kit.WriteJSON(cmd.OutOrStdout(), p)
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := a.store.List(cmd.Context())
			if err != nil {
				return err
			}
			return kit.WriteJSON(cmd.OutOrStdout(), products)
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := catalog.ParseID(args[0])
			if !ok {
				return fmt.Errorf("%w: id=%q", catalog.ErrNotFound, args[0])
			}

			p, found, err := a.store.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: id=%d", catalog.ErrNotFound, id)
			}
			return kit.WriteJSON(cmd.OutOrStdout(), p)
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	var flags productFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := catalog.ParseID(args[0])
			if !ok {
				return fmt.Errorf("%w: id=%q", catalog.ErrNotFound, args[0])
			}

			patch, err := flags.patch(cmd.Flags())
			if err != nil {
				return err
			}

			p, err := a.store.Update(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			return kit.WriteJSON(cmd.OutOrStdout(), p)
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := catalog.ParseID(args[0])
			if !ok {
				return fmt.Errorf("%w: id=%q", catalog.ErrNotFound, args[0])
			}

			if err := a.store.Delete(cmd.Context(), id); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", id)
			return err
		},
	}
}
