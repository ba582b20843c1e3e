package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/usestring/droitfr-mcp/internal/query"
	"github.com/usestring/droitfr-mcp/pkg/jsonclean"
	"github.com/usestring/droitfr-mcp/pkg/mcpsrv"
	"github.com/usestring/droitfr-mcp/pkg/validate"
)

var articleFlags struct {
	JQ         string
	MaxResults int
	Dedupe     bool
	Raw        bool
}

var articleCmd = &cobra.Command{
	Use:   "article <id>",
	Short: "Fetch a Légifrance document and print it cleaned",
	Args:  cobra.ExactArgs(1),
	RunE:  runArticle,
}

func init() {
	articleCmd.Flags().StringVar(&articleFlags.JQ, "jq", "", "jq expression applied to the raw document before cleaning")
	articleCmd.Flags().IntVar(&articleFlags.MaxResults, "max-results", 0, "keep at most this many jq outputs (0 for all)")
	articleCmd.Flags().BoolVar(&articleFlags.Dedupe, "dedupe", false, "drop duplicate jq outputs")
	articleCmd.Flags().BoolVar(&articleFlags.Raw, "raw", false, "print the document without cleaning")
}

func runArticle(cmd *cobra.Command, args []string) error {
	opts, err := articleSelectOptions()
	if err != nil {
		return err
	}
	deps, err := mcpsrv.BuildDeps(loadConfig())
	if err != nil {
		return err
	}

	doc, err := deps.Legifrance.Article(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var out any = doc
	switch {
	case articleFlags.JQ != "":
		res, err := deps.Query.Select(cmd.Context(), doc.Any(), articleFlags.JQ, opts)
		if err != nil {
			return err
		}
		for _, e := range res.Errors {
			fmt.Fprintln(os.Stderr, "jq:", e)
		}
		values := make([]any, len(res.Values))
		for i, v := range res.Values {
			values[i] = v
			if !articleFlags.Raw {
				values[i] = jsonclean.CleanAny(v)
			}
		}
		out = values
	case !articleFlags.Raw:
		if cleaned := jsonclean.Clean(doc); cleaned != nil {
			out = cleaned
		} else {
			out = jsonclean.NewObject()
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// articleSelectOptions reads the jq tuning flags.
func articleSelectOptions() (query.Options, error) {
	if err := validate.Range("max-results", articleFlags.MaxResults, 0, 0); err != nil {
		return query.Options{}, err
	}
	return query.Options{
		Deduplicate: articleFlags.Dedupe,
		MaxResults:  articleFlags.MaxResults,
	}, nil
}
