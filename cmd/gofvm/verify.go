package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"gofvm"
	"gofvm/model"
	"gofvm/server"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var errViolated = errors.New("a property is violated")

// verify command flags
var (
	remote     string
	searchTree string
	noColor    bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify [documents...]",
	Short: "Check the properties of model documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}
		ctx := cmd.Context()
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}

		check := verifyLocally
		if remote != "" {
			c, err := server.Dial(remote, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return err
			}
			defer c.Close()
			check = func(ctx context.Context, d *model.Document) ([]model.Report, error) {
				return c.Verify(ctx, d)
			}
		}

		violated := false
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			d, err := model.Parse(data)
			if err != nil {
				return fmt.Errorf("%v: %w", path, err)
			}
			reports, err := check(ctx, d)
			if err != nil {
				return fmt.Errorf("%v: %w", path, err)
			}
			for _, r := range reports {
				violated = violated || !r.Holds
			}
			if err := printReports(cmd.OutOrStdout(), reports); err != nil {
				return err
			}
		}
		if violated {
			return errViolated
		}
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&remote, "remote", "", "Address of a gofvm server to verify on")
	verifyCmd.Flags().StringVar(&searchTree, "search-tree", "", "Write the search trees of the emptiness checks to this file")
	verifyCmd.Flags().BoolVar(&noColor, "no-color", false, "Print results without color")
}

func verifyLocally(ctx context.Context, d *model.Document) ([]model.Report, error) {
	opts := cfg.VerifyOptions(logger)
	if searchTree != "" {
		w, err := os.Create(searchTree)
		if err != nil {
			return nil, err
		}
		defer w.Close()
		// Search trees are only written when properties are checked one at a time.
		opts = append(opts, gofvm.WithConcurrency(1), gofvm.WithSearchTree(w))
	}
	logger.Debug("Verifying", zap.String("document", d.Name), zap.Int("properties", len(d.Properties)))
	return gofvm.VerifyDocument(ctx, d, opts...)
}

func printReports(out io.Writer, reports []model.Report) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, r := range reports {
		result := color.GreenString("holds")
		if !r.Holds {
			result = color.RedString("VIOLATED")
		}
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\n", r.Document, r.Property, result, r.Fingerprint)
		for _, s := range r.Prefix {
			fmt.Fprintf(w, "\t->\t%v\n", s)
		}
		for _, s := range r.Cycle {
			fmt.Fprintf(w, "\t=>\t%v\n", s)
		}
	}
	return w.Flush()
}
