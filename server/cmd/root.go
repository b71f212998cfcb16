package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/superpiccell/spen-minter/config"
	"github.com/superpiccell/spen-minter/server"
	"github.com/superpiccell/spen-minter/service/logger"
	"github.com/superpiccell/spen-minter/service/persist"
	sentryutil "github.com/superpiccell/spen-minter/service/sentry"
)

var (
	port      int
	quietLogs bool
	envFile   string
)

func init() {
	cobra.OnInitialize(config.SetDefaults)

	rootCmd.PersistentFlags().BoolVarP(&quietLogs, "quiet", "q", false, "hide debug logs")
	rootCmd.PersistentFlags().StringVarP(&envFile, "env-file", "e", ".env", "dotenv file to read on top of the environment")

	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "port to serve on (overrides PORT)")

	rootCmd.AddCommand(serveCmd, contentsCmd, scanCmd, configCmd, mintCmd, burnCmd, nftsCmd)
}

var rootCmd = &cobra.Command{
	Use:   "minter",
	Short: "Mint content from the SuperPiccell registry as SPEN NFTs",
	Long: `A headless minting front end: connects a wallet, reads the registry and the NFT contract,
decides which content can be minted and submits mint and burn transactions.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		defer sentryutil.RecoverAndRaise(ctx)

		app, err := setup(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		if port != 0 {
			app.Config.Port = port
		}

		logger.For(ctx).WithFields(logrus.Fields{"port": app.Config.Port}).Info("Starting minter server")
		return server.Serve(ctx, app)
	},
}

var contentsCmd = &cobra.Command{
	Use:   "contents",
	Short: "Show the mintable contents and whether each can be minted right now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		defer sentryutil.RecoverAndRaise(ctx)

		app, err := setup(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		stop := app.MintPage.Start(ctx)
		defer stop()
		return printJSON(cmd, app.MintPage.View(ctx))
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List the content ids that live tokens were minted from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		defer sentryutil.RecoverAndRaise(ctx)

		app, err := setup(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Session.Connect(ctx); err != nil {
			logger.For(ctx).WithError(err).Warn("scanning without a wallet")
		}

		minted := app.Minted.Scan(ctx)
		ids := make([]persist.ContentID, 0, len(minted))
		for id := range minted {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i].BigInt().Cmp(ids[j].BigInt()) < 0 })
		return printJSON(cmd, ids)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the NFT contract's mint configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		defer sentryutil.RecoverAndRaise(ctx)

		app, err := setup(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Session.Connect(ctx); err != nil {
			logger.For(ctx).WithError(err).Warn("reading without a wallet")
		}

		res := app.MintConfig.Read(ctx)
		if !res.OK() {
			return res.Err()
		}
		return printJSON(cmd, res.Value())
	},
}

var mintCmd = &cobra.Command{
	Use:   "mint <contentId>",
	Short: "Mint one content item to the connected wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		defer sentryutil.RecoverAndRaise(ctx)

		id, err := persist.ParseContentID(args[0])
		if err != nil {
			return err
		}

		app, err := setup(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		stop := app.MintPage.Start(ctx)
		defer stop()

		status, err := app.MintPage.Mint(ctx, id)
		if status.Message != "" {
			fmt.Fprintln(cmd.OutOrStdout(), status.Message)
		}
		if status.TxURL != "" {
			fmt.Fprintln(cmd.OutOrStdout(), status.TxURL)
		}
		return err
	},
}

var burnCmd = &cobra.Command{
	Use:   "burn <tokenId>",
	Short: "Burn one token owned by the connected wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		defer sentryutil.RecoverAndRaise(ctx)

		tokenID, err := persist.TokenIDFromBase10(args[0])
		if err != nil {
			return err
		}

		app, err := setup(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Session.Connect(ctx); err != nil {
			return err
		}

		hash, err := app.Burner.Burn(ctx, tokenID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), app.Config.TxURL(hash.Hex()))
		return nil
	},
}

var nftsCmd = &cobra.Command{
	Use:   "nfts",
	Short: "List every live token and which ones the connected wallet owns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		defer sentryutil.RecoverAndRaise(ctx)

		app, err := setup(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		return printJSON(cmd, app.NFTList.Load(ctx))
	},
}

func setup(ctx context.Context) (*server.App, error) {
	config.LoadConfigFile(envFile)

	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	logger.InitWithDefaults(cfg.AppEnv, quietLogs)

	if err := sentryutil.Init(cfg.SentryDSN, cfg.AppEnv, cfg.SentryTracesSampleRate); err != nil {
		logger.For(ctx).WithError(err).Error("failed to start sentry")
	}

	return server.NewApp(ctx, cfg)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
