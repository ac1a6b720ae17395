package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/UnknownOlympus/florist/internal/config"
	"github.com/UnknownOlympus/florist/internal/mapview"
	"github.com/UnknownOlympus/florist/internal/models"
	"github.com/UnknownOlympus/florist/internal/service"
	"github.com/spf13/cobra"
)

var (
	withAddresses bool
	asJSON        bool
)

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "List the cities and provinces that can be searched",
	Args:  cobra.NoArgs,
	RunE:  runCities,
}

var shopsCmd = &cobra.Command{
	Use:   "shops <city>",
	Short: "List the florist shops of a city",
	Long: `Query the Overpass API for florist shops inside the bounding box of the city.
An unknown city falls back to the default one.`,
	Args: cobra.ExactArgs(1),
	RunE: runShops,
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Read city names from stdin and show the shops of the latest one",
	Long: `Each line read from stdin selects a city. A new selection cancels the query
still running for the previous one, and a late answer to an older selection is never shown.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	shopsCmd.Flags().BoolVarP(&withAddresses, "addresses", "a", false, "Resolve the address of every shop")
	shopsCmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	citiesCmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of plain names")
}

// cliApp loads the configuration and wires the app with logs on stderr.
func cliApp(ctx context.Context) (*app, error) {
	cfg := config.MustLoad()
	return newApp(ctx, cfg, setupLogger(cfg.Env, os.Stderr))
}

func runCities(cmd *cobra.Command, _ []string) error {
	application, err := cliApp(cmd.Context())
	if err != nil {
		return err
	}

	table, err := application.requireTable()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, table)
	}

	for _, name := range table.Names() {
		marker := " "
		if name == table.DefaultCity() {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s\n", marker, name)
	}

	return nil
}

func runShops(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := cliApp(ctx)
	if err != nil {
		return err
	}

	city := args[0]
	result, err := application.shops.FindShops(ctx, city)
	if err != nil {
		return fmt.Errorf("%s (%w)", service.UserMessage(err, city), err)
	}

	shops := make([]service.AddressedShop, 0, len(result.Shops))
	if withAddresses && application.addresses != nil {
		shops = application.addresses.Resolve(ctx, result.Shops)
	} else {
		for _, shop := range result.Shops {
			shops = append(shops, service.AddressedShop{Shop: shop, Address: shop.Coordinates().String()})
		}
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, struct {
			City     string                  `json:"city"`
			FellBack bool                    `json:"fell_back"`
			Shops    []service.AddressedShop `json:"shops"`
		}{City: result.City, FellBack: result.FellBack, Shops: shops})
	}

	if result.FellBack {
		fmt.Fprintf(out, "%q is not in the table, showing %s\n", city, result.City)
	}
	printShops(out, result.City, shops)

	return nil
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := cliApp(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	view := service.NewView(application.shops, application.log, func(snap service.Snapshot) {
		printSnapshot(out, snap)
	})
	defer view.Close()

	if application.table != nil {
		fmt.Fprintf(out, "Chọn tỉnh/thành phố (mặc định: %s):\n", application.table.DefaultCity())
	}

	return browse(ctx, cmd.InOrStdin(), view)
}

// browse selects every non-empty line of in and waits for the last query.
func browse(ctx context.Context, in io.Reader, view *service.View) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				view.Wait()
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if line != "" {
				view.Select(ctx, line)
			}
		}
	}
}

func printSnapshot(out io.Writer, snap service.Snapshot) {
	switch snap.State {
	case service.StateLoading:
		fmt.Fprintf(out, "[%d] %s %s\n", snap.Generation, snap.City, snap.Message)
	case service.StateReady:
		shops := make([]service.AddressedShop, 0, len(snap.Result.Shops))
		for _, shop := range snap.Result.Shops {
			shops = append(shops, service.AddressedShop{Shop: shop, Address: shop.Coordinates().String()})
		}
		fmt.Fprintf(out, "[%d] ", snap.Generation)
		printShops(out, snap.Result.City, shops)
	case service.StateEmpty, service.StateFailed:
		fmt.Fprintf(out, "[%d] %s\n", snap.Generation, snap.Message)
	case service.StateIdle:
	}
}

func printShops(out io.Writer, city string, shops []service.AddressedShop) {
	fmt.Fprintf(out, "%s: %d\n", city, len(shops))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tADDRESS")
	for _, shop := range shops {
		fmt.Fprintf(w, "%d\t%s\t%s\n", shop.ID, shopTitle(shop.Shop), shop.Address)
	}
	_ = w.Flush()
}

func shopTitle(shop models.Shop) string {
	if shop.Name == "" {
		return mapview.UnnamedShop
	}

	return shop.Name
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
