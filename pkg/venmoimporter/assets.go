package venmoimporter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/bcaldwell/venmosync/pkg/config"
	"github.com/bcaldwell/venmosync/pkg/lunchmoney"
	"github.com/bcaldwell/venmosync/pkg/transport"
)

// ListAssetsRunner prints the Lunch Money assets so the right asset can be put in the config.
type ListAssetsRunner struct {
	lunchMoney *lunchmoney.Client
	out        io.Writer
}

func NewListAssetsRunner(out io.Writer) *ListAssetsRunner {
	conf := config.CurrentLunchMoneyConfig()
	httpClient := &http.Client{Timeout: time.Duration(conf.HTTPTimeoutSeconds) * time.Second}

	return newListAssetsRunner(httpClient, conf.BaseURL, config.CurrentLunchMoneySecrets().AccessToken, out)
}

func newListAssetsRunner(httpClient *http.Client, baseURL, accessToken string, out io.Writer) *ListAssetsRunner {
	if out == nil {
		out = os.Stdout
	}

	return &ListAssetsRunner{
		lunchMoney: lunchmoney.NewClient(transport.NewClient(httpClient, "lunchmoney"), baseURL, accessToken, lunchmoney.InsertOptions{}),
		out:        out,
	}
}

func (r *ListAssetsRunner) Run() error {
	assets, err := r.lunchMoney.GetAllAssets(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDISPLAY NAME\tTYPE\tCURRENCY\tBALANCE")
	for _, a := range assets {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.Name, a.DisplayName, a.TypeName, a.Currency, a.Balance)
	}
	return w.Flush()
}
