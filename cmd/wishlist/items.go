package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Kerhoff/wishlist/internal/service"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the wishlist grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			a, err := newApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := a.close(cmd.Context()); err == nil {
					err = cerr
				}
			}()

			sections, err := a.svc.Sections(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(sections) == 0 {
				fmt.Fprintln(out, "Your wishlist is empty.")
				return nil
			}
			for i, sec := range sections {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, sec.Title)
				for _, item := range sec.Items {
					line := fmt.Sprintf("  #%d %s", item.ID, item.Title)
					if p := item.DisplayPrice(); p != "" {
						line += "  " + p
					}
					if item.HasURL() {
						line += "  " + item.URL
					}
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	var form service.ItemForm

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item to the wishlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			a, err := newApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := a.close(cmd.Context()); err == nil {
					err = cerr
				}
			}()

			item, err := a.svc.Add(cmd.Context(), form)
			if errors.Is(err, service.ErrInvalidItem) {
				return errors.New(strings.Join(service.ValidationMessages(err), "; "))
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added #%d %s\n", item.ID, item.Title)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.Title, "title", "", "item title (required)")
	f.StringVar(&form.Description, "description", "", "item description")
	f.StringVar(&form.Price, "price", "", "price in USD, e.g. 10.00")
	f.StringVar(&form.URL, "url", "", "link to the product page")
	f.StringVar(&form.Category, "category", "", "electronics, crafts, gifts, books, clothing, custom, or an existing custom category")
	f.StringVar(&form.CustomCategory, "custom-category", "", "category name when --category=custom")
	f.StringVar(&form.CustomImage, "custom-image", "", "image URL when --category=custom")

	return cmd
}
