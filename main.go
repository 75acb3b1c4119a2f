package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/bcaldwell/venmosync/pkg/config"
	"github.com/bcaldwell/venmosync/pkg/venmoimporter"
	"github.com/robfig/cron"
	"k8s.io/klog"
)

const (
	taskSync   = "sync"
	taskAssets = "assets"
)

type Args struct {
	Task      string `arg:"positional,required" help:"task to run: sync or assets"`
	Config    string `arg:"--config" default:"./config.yml" help:"configuration file"`
	Secrets   string `arg:"--secrets" default:"./secrets.json" help:"secrets file"`
	SingleRun bool   `arg:"--single-run" help:"run importer once (disable cron)"`
	Start     string `arg:"--start" help:"first statement day, YYYY-MM-DD (requires --end)"`
	End       string `arg:"--end" help:"last statement day, YYYY-MM-DD (requires --start)"`
	DryRun    bool   `arg:"--dry-run" help:"print ledger entries instead of submitting them"`
}

// Version is set with -ldflags at build time.
var Version = "development"

func (Args) Version() string {
	return Version
}

func (Args) Description() string {
	return "venmosync imports Venmo statements into Lunch Money"
}

type Runner interface {
	Run() error
}

var runner Runner

func main() {
	var args Args
	p, err := arg.NewParser(arg.Config{}, &args)
	if err != nil {
		klog.Fatalf("Error creating argument parser: %v", err)
	}

	err = p.Parse(os.Args[1:])
	switch {
	case err == arg.ErrHelp:
		p.WriteHelp(os.Stdout)
		return
	case err == arg.ErrVersion:
		fmt.Println(Version)
		return
	case err != nil:
		p.Fail(err.Error())
	}

	var except []string
	if args.Task == taskAssets {
		except = config.AssetListingExcept
	}

	err = config.ReadConfig(args.Config, args.Secrets, except...)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	switch args.Task {
	case taskSync:
		options, err := syncOptions(args)
		if err != nil {
			p.Fail(err.Error())
		}

		importer, err := venmoimporter.NewImportVenmoRunner(options)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer importer.Close()
		runner = importer
	case taskAssets:
		runner = venmoimporter.NewListAssetsRunner(os.Stdout)
		args.SingleRun = true
	default:
		p.Fail(fmt.Sprintf("unknown task %q, expected %s or %s", args.Task, taskSync, taskAssets))
	}

	run()

	// a fixed window or a dry run would only repeat itself
	if args.SingleRun || args.DryRun || args.Start != "" {
		return
	}

	c := cron.New()
	c.AddFunc(config.CurrentConfig().UpdateFrequency, run)

	c.Start()

	select {}
}

func syncOptions(args Args) (venmoimporter.Options, error) {
	options := venmoimporter.Options{DryRun: args.DryRun, Out: os.Stdout}

	if (args.Start == "") != (args.End == "") {
		return options, fmt.Errorf("--start and --end must be used together")
	}
	if args.Start == "" {
		return options, nil
	}

	start, err := time.Parse(time.DateOnly, args.Start)
	if err != nil {
		return options, fmt.Errorf("invalid --start: %w", err)
	}
	end, err := time.Parse(time.DateOnly, args.End)
	if err != nil {
		return options, fmt.Errorf("invalid --end: %w", err)
	}
	if end.Before(start) {
		return options, fmt.Errorf("--end %s is before --start %s", args.End, args.Start)
	}

	options.Start, options.End = start, end
	return options, nil
}

func run() {
	klog.Infoln(time.Now().Format(time.RFC850))
	err := runner.Run()
	if err != nil {
		klog.Errorln(err)
	}
}
