package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-remailer/go-remailer/lib/bootstrap"
	"github.com/go-remailer/go-remailer/lib/chain"
	"github.com/go-remailer/go-remailer/lib/config"
	"github.com/go-remailer/go-remailer/lib/envelope"
	"github.com/go-remailer/go-remailer/lib/format"
	"github.com/go-remailer/go-remailer/lib/onion"
	"github.com/go-remailer/go-remailer/lib/pgp"
	"github.com/go-remailer/go-remailer/lib/route"
	"github.com/go-remailer/go-remailer/lib/util/logger"
	"github.com/go-remailer/go-remailer/lib/util/signals"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

var log = logger.GetLogger()

var (
	flagChain      []string
	flagTo         string
	flagHeaders    []string
	flagRedundancy int
	flagFormat     string
	flagStatsURL   string
	flagRlistFile  string
	flagKeyringDir string
	flagOutputDir  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "go-remailer [flags] [message...]",
		Short: "Build onion-encrypted messages for a chain of cypherpunk remailers",
		Long: `go-remailer resolves a remailer chain (literal names or "*" wildcards),
wraps your message in one encryption layer per hop, and prints the result
ready to hand to the first remailer. The message body is read from the
arguments, or from stdin when none are given.`,
		SilenceUsage: true,
		RunE:         runSend,
	}

	cobra.OnInitialize(config.InitConfig)

	root.PersistentFlags().StringVar(&config.CfgFile, "config", "", "config file (default $HOME/.go-remailer/config.yaml)")
	root.PersistentFlags().StringVarP(&flagStatsURL, "stats", "s", "", "remailer statistics base URL")
	root.PersistentFlags().StringVar(&flagRlistFile, "rlist", "", "local directory file (rlist.txt or YAML) used before the network")
	root.PersistentFlags().StringVarP(&flagKeyringDir, "keyring", "k", "", "directory of armored public key files to import")

	root.Flags().StringSliceVarP(&flagChain, "chain", "c", nil, `remailer chain, e.g. -c paranoia,dizum or -c "*,*,*"`)
	root.Flags().StringVarP(&flagTo, "to", "t", "", "final recipient address")
	root.Flags().StringArrayVarP(&flagHeaders, "header", "H", nil, `header for the final recipient, e.g. -H "Subject: hello"`)
	root.Flags().IntVarP(&flagRedundancy, "redundancy", "r", 0, "number of independently routed copies")
	root.Flags().StringVarP(&flagFormat, "format", "f", "", "output format: native, mailto or eml")
	root.Flags().StringVarP(&flagOutputDir, "output", "o", "", "write each copy to a file in this directory instead of stdout")

	root.AddCommand(newListCmd())
	return root
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg := config.CurrentConfig()
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go signals.Handle()
	signals.RegisterInterruptHandler(func() { cancel() })

	if len(flagChain) == 0 {
		return oops.Errorf("a chain is required; pass at least one remailer with --chain")
	}
	if flagTo == "" {
		return oops.Errorf("a final recipient is required; pass one with --to")
	}
	if len(flagChain) > cfg.Chain.MaxLength {
		return oops.Errorf("chain has %d hops, configured maximum is %d", len(flagChain), cfg.Chain.MaxLength)
	}

	redundancy := flagRedundancy
	if redundancy == 0 {
		redundancy = cfg.Route.Redundancy
	}
	formatName := flagFormat
	if formatName == "" {
		formatName = cfg.Output.Format
	}
	kind, err := format.ParseKind(formatName)
	if err != nil {
		return err
	}

	headers, err := parseHeaders(flagHeaders)
	if err != nil {
		return err
	}
	body, err := readBody(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	bs := buildBootstrap(cfg)
	dir, err := bs.FetchDirectory(ctx)
	if err != nil {
		return oops.Wrapf(err, "could not load the remailer directory")
	}

	backend := pgp.NewOpenPGP()
	if err := importKeys(ctx, backend, bs, cfg.Keyring.Dir); err != nil {
		return err
	}

	router := route.NewRouter(dir, backend, route.WithWorkers(cfg.Route.Workers))
	msg := onion.Message{Recipient: flagTo, Headers: headers, Body: body}
	outcome, err := router.Route(ctx, chain.Spec(flagChain), msg, redundancy)
	if err != nil {
		return err
	}

	for _, failure := range outcome.Failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "copy %d failed: %v\n", failure.Copy, failure.Err)
	}
	return writeResults(cmd.OutOrStdout(), outcome.Results, kind)
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the remailers known to the directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.CurrentConfig()
			dir, err := buildBootstrap(cfg).FetchDirectory(cmd.Context())
			if err != nil {
				return oops.Wrapf(err, "could not load the remailer directory")
			}
			for _, name := range dir.Names() {
				record, err := dir.Lookup(name)
				if err != nil {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-40s %-24s latency %-8s uptime %.2f%%\n",
					record.Name, record.Email, record.Caps, record.Latency, record.Uptime)
			}
			return nil
		},
	}
}

// buildBootstrap assembles the directory sources: a local file when given,
// then the statistics site.
func buildBootstrap(cfg *config.Config) bootstrap.Bootstrap {
	statsCfg := cfg.Stats
	if flagStatsURL != "" {
		statsCfg.URL = flagStatsURL
	}
	httpSource := bootstrap.NewHTTPBootstrap(statsCfg)
	if flagRlistFile != "" {
		fileSource := bootstrap.NewFileBootstrap(flagRlistFile, "")
		return bootstrap.NewCompositeBootstrap(fileSource, httpSource)
	}
	return httpSource
}

// importKeys loads armored keys from the local keyring directory and, when
// that yields nothing, from the bootstrap source.
func importKeys(ctx context.Context, backend pgp.Backend, bs bootstrap.Bootstrap, defaultDir string) error {
	dir := flagKeyringDir
	if dir == "" {
		dir = defaultDir
	}

	imported := 0
	entries, err := os.ReadDir(dir)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				log.WithError(err).WithField("file", entry.Name()).Warn("skipping unreadable key file")
				continue
			}
			if err := backend.ImportKey(data); err != nil {
				log.WithError(err).WithField("file", entry.Name()).Warn("skipping unparsable key file")
				continue
			}
			imported++
		}
	}
	if imported > 0 {
		return nil
	}

	blocks, err := bs.FetchKeyring(ctx)
	if err != nil {
		return oops.Wrapf(err, "no local keys in %s and fetching the pubring failed", dir)
	}
	for _, block := range blocks {
		if err := backend.ImportKey(block); err != nil {
			log.WithError(err).Warn("skipping unparsable pubring block")
		}
	}
	return nil
}

func parseHeaders(raw []string) ([]envelope.Header, error) {
	var headers []envelope.Header
	for _, line := range raw {
		name, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, oops.Errorf("malformed header %q, expected \"Name: value\"", line)
		}
		headers = append(headers, envelope.Header{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}
	return headers, nil
}

func readBody(args []string, stdin io.Reader) ([]byte, error) {
	if len(args) > 0 {
		return []byte(strings.Join(args, " ")), nil
	}
	body, err := io.ReadAll(stdin)
	if err != nil {
		return nil, oops.Wrapf(err, "failed to read message from stdin")
	}
	if len(body) == 0 {
		return nil, oops.Errorf("empty message; pass it as arguments or on stdin")
	}
	return body, nil
}

// writeResults serializes each copy to stdout, or to numbered files when
// an output directory was requested.
func writeResults(stdout io.Writer, results []route.Result, kind format.Kind) error {
	ext := "txt"
	if kind == format.EML {
		ext = "eml"
	}
	for i := range results {
		data, err := format.Format(&results[i], kind)
		if err != nil {
			return err
		}
		if flagOutputDir == "" {
			if i > 0 {
				fmt.Fprintln(stdout)
			}
			if _, err := stdout.Write(data); err != nil {
				return oops.Wrapf(err, "failed to write copy %d", i)
			}
			fmt.Fprintln(stdout)
			continue
		}
		name := filepath.Join(flagOutputDir, fmt.Sprintf("message_%d.%s", i+1, ext))
		if err := os.WriteFile(name, data, 0o600); err != nil {
			return oops.Wrapf(err, "failed to write %s", name)
		}
		log.WithField("file", name).Debug("wrote routed copy")
	}
	return nil
}
