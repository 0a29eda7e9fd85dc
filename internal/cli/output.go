package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// FormatPrice renders an amount with two decimal places.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderProducts(w io.Writer, products []entity.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, "No products")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tPRICE")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Title, p.Category, FormatPrice(p.Price))
	}
	return tw.Flush()
}

func renderCategories(w io.Writer, categories []string, selected string) error {
	for _, c := range categories {
		marker := " "
		if c == selected {
			marker = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", marker, c); err != nil {
			return err
		}
	}
	return nil
}

func renderCart(w io.Writer, cart entity.Cart) error {
	if len(cart) == 0 {
		fmt.Fprintln(w, "Cart is empty")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "PRODUCT\tQTY\tSUBTOTAL")
		for _, line := range cart {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", line.Title, line.Qty, FormatPrice(line.Subtotal()))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Total: %s\n", FormatPrice(cart.Total()))
	return err
}

// cartView is the JSON shape of the cart command.
type cartView struct {
	Items entity.Cart `json:"items"`
	Total float64     `json:"total"`
}
