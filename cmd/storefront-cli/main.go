// Command storefront-cli is a shopper client for the storefront API. The
// cart lives in a local file between invocations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/apiclient"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/cart"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/checkout"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/pricing"
)

const usage = `usage: storefront-cli <command> [flags]

commands:
  products     list products (-category, -search, -page, -per-page, -orderby, -order)
  categories   list categories
  product      show a product and related fonts (-slug)
  add          add a product to the cart (-slug, -qty, -license)
  update       change a cart quantity, 0 removes (-id, -qty)
  remove       remove every license of a product from the cart (-id)
  cart         show the cart (-coupon)
  validate     check the cart against the catalog
  clear        empty the cart
  checkout     place an order for the cart
  order        show an order (-id)
  gateways     list payment methods

environment:
  STOREFRONT_CLIENT__API_URL    API base URL (default http://localhost:8080)
  STOREFRONT_CLIENT__CART_FILE  cart file (default ~/.storefront/cart.json)
  STOREFRONT_CLIENT__TIMEOUT    API request timeout (default 30s)
  STOREFRONT_COMMERCE__CURRENCY display currency (default USD)
  STOREFRONT_CONFIG             optional YAML file with the same keys

  STOREFRONT_API_URL, STOREFRONT_CART_FILE and STOREFRONT_CURRENCY are
  still accepted.
`

type app struct {
	api      *apiclient.Client
	cart     *cart.Store
	currency string
	out      io.Writer
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: load config: %v\n", err)
		os.Exit(1)
	}

	a, err := newApp(cfg, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(cfg *config.Config, out io.Writer) (*app, error) {
	cartFile := cfg.Client.CartFile
	if cartFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cartFile = filepath.Join(home, ".storefront", "cart.json")
	}

	store, err := cart.NewStore(cart.NewFileStorage(cartFile))
	if err != nil {
		return nil, err
	}

	return &app{
		api:      apiclient.New(cfg.Client.APIURL, &http.Client{Timeout: cfg.Client.Timeout}),
		cart:     store,
		currency: cfg.Commerce.Currency,
		out:      out,
	}, nil
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "products":
		return a.products(ctx, args)
	case "categories":
		return a.categories(ctx)
	case "product":
		return a.product(ctx, args)
	case "add":
		return a.add(ctx, args)
	case "update":
		return a.update(args)
	case "remove":
		return a.remove(args)
	case "cart":
		return a.showCart(ctx, args)
	case "validate":
		return a.validate(ctx)
	case "clear":
		if err := a.cart.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Cart cleared.")
		return nil
	case "checkout":
		return a.checkout(ctx, args)
	case "order":
		return a.order(ctx, args)
	case "gateways":
		return a.gateways(ctx)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) price(s string) string {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return pricing.Format(a.currency, d)
}

func (a *app) products(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	category := fs.String("category", "", "category slug")
	search := fs.String("search", "", "name search")
	page := fs.Int("page", 0, "page number")
	perPage := fs.Int("per-page", 0, "products per page")
	orderBy := fs.String("orderby", "", "sort field: date, title, price, popularity, rating")
	order := fs.String("order", "", "asc or desc")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := a.api.ListProducts(ctx, models.ProductListParams{
		Page:     *page,
		PerPage:  *perPage,
		Category: *category,
		Search:   *search,
		OrderBy:  *orderBy,
		Order:    *order,
	})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSLUG\tPRICE")
	for _, p := range list.Products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.Slug, a.price(p.Price))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d products, %d pages\n", list.Total, list.TotalPages)
	return nil
}

func (a *app) categories(ctx context.Context) error {
	categories, err := a.api.ListCategories(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		fmt.Fprintf(a.out, "%s\t%s\n", c.Slug, c.Name)
	}
	return nil
}

func (a *app) product(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("product", flag.ContinueOnError)
	slug := fs.String("slug", "", "product slug")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *slug == "" {
		return errors.New("-slug is required")
	}

	resp, err := a.api.GetProduct(ctx, *slug, true)
	if err != nil {
		return err
	}

	p := resp.Product
	fmt.Fprintf(a.out, "%s (#%d)\n%s\n%s\n", p.Name, p.ID, a.price(p.Price), p.ShortDescription)
	if len(resp.RelatedProducts) > 0 {
		fmt.Fprintln(a.out, "\nYou may also like:")
		for _, r := range resp.RelatedProducts {
			fmt.Fprintf(a.out, "  %s (%s)\n", r.Name, r.Slug)
		}
	}
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	slug := fs.String("slug", "", "product slug")
	qty := fs.Int("qty", 1, "quantity")
	license := fs.String("license", "desktop", "license type")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *slug == "" {
		return errors.New("-slug is required")
	}

	resp, err := a.api.GetProduct(ctx, *slug, false)
	if err != nil {
		return err
	}
	p := resp.Product
	price, err := p.PriceDecimal()
	if err != nil {
		return err
	}

	item := cart.Item{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     price,
		Quantity:  *qty,
		License:   *license,
		Slug:      p.Slug,
	}
	if len(p.Images) > 0 {
		item.Image = p.Images[0].Src
	}
	if err := a.cart.AddItem(item); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Added %d x %s (%s). Cart has %d items.\n", *qty, p.Name, *license, a.cart.TotalItems())
	return nil
}

func (a *app) update(args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	id := fs.Int64("id", 0, "product id")
	qty := fs.Int("qty", 1, "new quantity, 0 removes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.cart.UpdateQuantity(*id, *qty); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Cart has %d items.\n", a.cart.TotalItems())
	return nil
}

func (a *app) remove(args []string) error {
	fs := flag.NewFlagSet("remove", flag.ContinueOnError)
	id := fs.Int64("id", 0, "product id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.cart.RemoveItem(*id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Cart has %d items.\n", a.cart.TotalItems())
	return nil
}

func (a *app) showCart(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cart", flag.ContinueOnError)
	coupon := fs.String("coupon", "", "coupon code to preview")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if a.cart.IsEmpty() {
		fmt.Fprintln(a.out, "Your cart is empty.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLICENSE\tQTY\tPRICE\tSUBTOTAL")
	for _, item := range a.cart.Items() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n", item.ProductID, item.Name, item.License, item.Quantity,
			pricing.Format(a.currency, item.Price), pricing.Format(a.currency, item.Subtotal()))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	w := checkout.NewWorkflow(a.api, a.cart, checkout.DefaultOptions())
	if *coupon != "" {
		if _, err := w.ApplyCoupon(ctx, *coupon); err != nil {
			fmt.Fprintf(a.out, "Coupon not applied: %v\n", err)
		}
	}
	return a.printSummary(w)
}

func (a *app) printSummary(w *checkout.Workflow) error {
	totals, err := w.Summary()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Subtotal: %s\n", pricing.Format(a.currency, totals.Subtotal))
	if totals.Discount.IsPositive() {
		fmt.Fprintf(a.out, "Discount: -%s\n", pricing.Format(a.currency, totals.Discount))
	}
	fmt.Fprintf(a.out, "Total:    %s\n", pricing.Format(a.currency, totals.Total))
	return nil
}

func (a *app) validate(ctx context.Context) error {
	items := a.cart.Items()
	req := make([]models.CartValidationItem, 0, len(items))
	for _, item := range items {
		req = append(req, models.CartValidationItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	resp, err := a.api.ValidateCart(ctx, req)
	if err != nil {
		return err
	}
	for _, item := range resp.Items {
		if !item.Valid {
			fmt.Fprintf(a.out, "Product %d: %s\n", item.ProductID, item.Error)
		}
	}
	if resp.Valid {
		fmt.Fprintln(a.out, "Cart is valid.")
	} else {
		fmt.Fprintln(a.out, "Cart has invalid items.")
	}
	return nil
}

func (a *app) checkout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	var form checkout.Form
	fs.StringVar(&form.Billing.FirstName, "first-name", "", "billing first name")
	fs.StringVar(&form.Billing.LastName, "last-name", "", "billing last name")
	fs.StringVar(&form.Billing.Company, "company", "", "billing company")
	fs.StringVar(&form.Billing.Address1, "address", "", "billing street address")
	fs.StringVar(&form.Billing.Address2, "address-2", "", "billing address line 2")
	fs.StringVar(&form.Billing.City, "city", "", "billing city")
	fs.StringVar(&form.Billing.State, "state", "", "billing state")
	fs.StringVar(&form.Billing.Postcode, "postcode", "", "billing postcode")
	fs.StringVar(&form.Billing.Country, "country", "", "billing country code")
	fs.StringVar(&form.Billing.Email, "email", "", "billing email")
	fs.StringVar(&form.Billing.Phone, "phone", "", "billing phone")
	fs.StringVar(&form.PaymentMethod, "payment", models.DefaultPaymentMethod, "payment method id")
	fs.BoolVar(&form.AcceptTerms, "accept-terms", false, "accept the terms and conditions")
	coupon := fs.String("coupon", "", "coupon code")
	if err := fs.Parse(args); err != nil {
		return err
	}
	form.PaymentMethodTitle = a.paymentTitle(ctx, form.PaymentMethod)

	w := checkout.NewWorkflow(a.api, a.cart, checkout.DefaultOptions())
	if *coupon != "" {
		if _, err := w.ApplyCoupon(ctx, *coupon); err != nil {
			return fmt.Errorf("coupon %s: %w", *coupon, err)
		}
	}
	if err := a.printSummary(w); err != nil {
		return err
	}

	result, err := w.Submit(ctx, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Order #%d placed (%s).\n", result.Order.ID, result.Order.Status)

	switch result.Step {
	case checkout.StepRedirect:
		fmt.Fprintln(a.out, "Complete your payment at:")
	case checkout.StepInstructions:
		fmt.Fprintln(a.out, result.Instructions)
	}

	next, err := w.Complete(result)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, next)
	return nil
}

// paymentTitle looks up the display title for method, falling back to the
// method id when the gateways cannot be listed.
func (a *app) paymentTitle(ctx context.Context, method string) string {
	gateways, err := a.api.ListPaymentGateways(ctx)
	if err != nil {
		return method
	}
	for _, g := range gateways {
		if g.ID == method {
			return g.Title
		}
	}
	return method
}

func (a *app) order(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("order", flag.ContinueOnError)
	id := fs.String("id", "", "order id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	orderID, err := strconv.ParseInt(strings.TrimSpace(*id), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid order id %q", *id)
	}

	order, err := a.api.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Order #%d: %s\n", order.ID, order.Status)
	for _, li := range order.LineItems {
		fmt.Fprintf(a.out, "  %d x %s\t%s\n", li.Quantity, li.Name, a.price(li.Total))
	}
	fmt.Fprintf(a.out, "Total: %s\n", a.price(order.Total))
	return nil
}

func (a *app) gateways(ctx context.Context) error {
	gateways, err := a.api.ListPaymentGateways(ctx)
	if err != nil {
		return err
	}
	for _, g := range gateways {
		if g.Enabled {
			fmt.Fprintf(a.out, "%s\t%s\n", g.ID, g.Title)
		}
	}
	return nil
}
