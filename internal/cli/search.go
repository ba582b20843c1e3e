package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/usestring/droitfr-mcp/pkg/legifrance"
	"github.com/usestring/droitfr-mcp/pkg/mcpsrv"
)

var searchFlags struct {
	Fund      string
	FieldType string
	Mode      string
	Code      string
	Sort      string
	Page      int
	PageSize  int
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search Légifrance and print the result summary",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchFlags.Fund, "fond", string(legifrance.FundCodeEtat), "fund to search (CODE_ETAT, LODA_DATE, JORF, JURI, KALI, ...)")
	searchCmd.Flags().StringVar(&searchFlags.FieldType, "champ", "ALL", "searched field (ALL, TITLE, NUM_ARTICLE, ARTICLE, ...)")
	searchCmd.Flags().StringVar(&searchFlags.Mode, "mode", string(legifrance.ModeAnyWord), "search mode (UN_DES_MOTS, EXACTE, ...)")
	searchCmd.Flags().StringVar(&searchFlags.Code, "code", "", "restrict a code fund to this code, e.g. \"Code civil\"")
	searchCmd.Flags().StringVar(&searchFlags.Sort, "tri", string(legifrance.SortRelevance), "sort order")
	searchCmd.Flags().IntVar(&searchFlags.Page, "page", 1, "page number, from 1")
	searchCmd.Flags().IntVar(&searchFlags.PageSize, "page-size", 10, "results per page")
}

func runSearch(cmd *cobra.Command, args []string) error {
	params, err := searchParams(strings.Join(args, " "))
	if err != nil {
		return err
	}

	deps, err := mcpsrv.BuildDeps(loadConfig())
	if err != nil {
		return err
	}

	res, err := deps.Legifrance.Search(cmd.Context(), params)
	if err != nil {
		return err
	}

	if globalFlags.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Items)
	}

	fmt.Printf("%d result(s)\n", res.TotalResultNumber)
	for _, item := range res.Items {
		fmt.Printf("%s  %s\n", item.ArticleID, firstNonEmpty(item.Title, item.Text))
		if item.SectionTitle != "" {
			fmt.Printf("    %s\n", item.SectionTitle)
		}
	}
	return nil
}

func searchParams(query string) (legifrance.Params, error) {
	fund, err := legifrance.ParseFund(searchFlags.Fund)
	if err != nil {
		return legifrance.Params{}, err
	}
	field, err := legifrance.ParseFieldType(searchFlags.FieldType)
	if err != nil {
		return legifrance.Params{}, err
	}
	mode, err := legifrance.ParseSearchMode(searchFlags.Mode)
	if err != nil {
		return legifrance.Params{}, err
	}
	sort, err := legifrance.ParseSort(searchFlags.Sort)
	if err != nil {
		return legifrance.Params{}, err
	}
	return legifrance.Params{
		Query:      query,
		Fund:       fund,
		FieldType:  field,
		SearchMode: mode,
		CodeName:   searchFlags.Code,
		PageNumber: searchFlags.Page,
		PageSize:   searchFlags.PageSize,
		Sort:       sort,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
