package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/jupiter-solana/internal/config"
	"github.com/aman-zulfiqar/jupiter-solana/internal/jupiter"
	"github.com/aman-zulfiqar/jupiter-solana/internal/swapengine"
	"github.com/aman-zulfiqar/jupiter-solana/internal/tokens"
)

func loadEnv() {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	_ = godotenv.Load(filepath.Join(projectRoot, ".env"))
}

func main() {
	loadEnv()

	mode := flag.String("mode", "quote", "quote | swap | open-order | cancel-orders | open-orders | order-history | trade-history")
	inTok := flag.String("in", "SOL", "input token symbol or mint (e.g. SOL)")
	outTok := flag.String("out", "USDC", "output token symbol or mint (e.g. USDC)")
	amt := flag.String("amt", "", "amount in human units (e.g. 0.1); the sold amount for orders")
	outAmt := flag.String("out-amt", "", "open-order: minimum amount bought, in human units")
	slippageBps := flag.Int("slippage-bps", int(swapengine.DefaultSlippageBps), "slippage in bps (e.g. 50 = 0.5%)")
	feeAccount := flag.String("fee-account", "", "swap: account receiving the fixed fee transfer")
	expires := flag.Int64("expires", 0, "open-order: unix expiry, 0 for none")
	orders := flag.String("orders", "", "cancel-orders: comma separated order keys, empty cancels all")
	walletAddr := flag.String("wallet", "", "queries: wallet to inspect, defaults to the configured wallet")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fail(2, "invalid configuration:", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	engine, err := swapengine.Open(ctx, cfg, nil, logger)
	if err != nil {
		fail(1, "failed to init swap engine:", err)
	}
	defer engine.Close()

	switch *mode {
	case "quote", "swap":
		in, out := resolvePair(*inTok, *outTok)
		amount := baseUnits(*amt, in, "-amt")
		slip, err := parseSlippage(*slippageBps)
		if err != nil {
			fail(2, "invalid -slippage-bps:", err)
		}

		if *mode == "quote" {
			q, err := engine.Quote(ctx, jupiter.QuoteRequest{
				InputMint:   in.Mint.String(),
				OutputMint:  out.Mint.String(),
				Amount:      amount,
				SlippageBps: &slip,
			})
			if err != nil {
				fail(1, "quote failed:", err)
			}
			fmt.Printf("in=%s %s out=%s %s min_out=%s price_impact=%s hops=%d\n",
				human(q.InAmount, in), in.Symbol, human(q.OutAmount, out), out.Symbol,
				human(q.OtherAmountThreshold, out), q.PriceImpactPct, len(q.RoutePlan))
			return
		}

		req := swapengine.SwapRequest{
			InputMint:   in.Mint.String(),
			OutputMint:  out.Mint.String(),
			Amount:      amount,
			SlippageBps: &slip,
		}
		if *feeAccount != "" {
			fee, err := solana.PublicKeyFromBase58(*feeAccount)
			if err != nil {
				fail(2, "invalid -fee-account:", err)
			}
			req.FeeAccount = &fee
		}
		res, err := engine.ExecuteSwapWithMeta(ctx, req)
		if err != nil {
			fail(1, "swap failed:", err)
		}
		fmt.Printf("sig=%s out=%s %s duration=%s\n", res.Signature, human(res.Quote.OutAmount, out), out.Symbol, res.Duration)

	case "open-order":
		in, out := resolvePair(*inTok, *outTok)
		req := swapengine.LimitOrderRequest{
			InputMint:  in.Mint.String(),
			OutputMint: out.Mint.String(),
			InAmount:   baseUnits(*amt, in, "-amt"),
			OutAmount:  baseUnits(*outAmt, out, "-out-amt"),
		}
		if *expires > 0 {
			req.ExpiredAt = expires
		}
		res, err := engine.OpenLimitOrder(ctx, req)
		if err != nil {
			fail(1, "open order failed:", err)
		}
		if res.Order.IsZero() {
			fmt.Printf("sig=%s order=unknown base=%s (list with -mode open-orders)\n", res.Signature, res.Base)
			return
		}
		fmt.Printf("sig=%s order=%s base=%s\n", res.Signature, res.Order, res.Base)

	case "cancel-orders":
		var keys []solana.PublicKey
		for _, s := range strings.Split(*orders, ",") {
			if s = strings.TrimSpace(s); s == "" {
				continue
			}
			k, err := solana.PublicKeyFromBase58(s)
			if err != nil {
				fail(2, "invalid order key "+s+":", err)
			}
			keys = append(keys, k)
		}
		sig, err := engine.CancelLimitOrders(ctx, keys)
		if err != nil {
			fail(1, "cancel failed:", err)
		}
		fmt.Printf("sig=%s orders=%d\n", sig, len(keys))

	case "open-orders", "order-history", "trade-history":
		owner := *walletAddr
		if owner == "" {
			if !engine.CanSign() {
				fail(2, "missing -wallet (no WALLET_PRIVATE_KEY configured)", nil)
			}
			owner = engine.Wallet().String()
		}

		var items any
		switch *mode {
		case "open-orders":
			items, err = engine.OpenOrders(ctx, owner, "", "")
		case "order-history":
			items, err = engine.OrderHistory(ctx, jupiter.HistoryRequest{Wallet: owner})
		default:
			items, err = engine.TradeHistory(ctx, jupiter.HistoryRequest{Wallet: owner})
		}
		if err != nil {
			fail(1, *mode+" failed:", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(items)

	default:
		fail(2, "invalid -mode (use quote|swap|open-order|cancel-orders|open-orders|order-history|trade-history)", nil)
	}
}

func resolvePair(in, out string) (tokens.Token, tokens.Token) {
	a, err := tokens.Resolve(in)
	if err != nil {
		fail(2, "invalid -in:", err)
	}
	b, err := tokens.Resolve(out)
	if err != nil {
		fail(2, "invalid -out:", err)
	}
	return a, b
}

// parseSlippage rejects values the uint16 query field would wrap.
func parseSlippage(bps int) (uint16, error) {
	if bps < 0 || bps > 10_000 {
		return 0, fmt.Errorf("%d out of range 0..10000", bps)
	}
	return uint16(bps), nil
}

func baseUnits(amount string, tok tokens.Token, name string) uint64 {
	if amount == "" {
		fail(2, "missing "+name+" (must be > 0)", nil)
	}
	if !tok.Known {
		fail(2, "unknown decimals for "+tok.Symbol+"; use a registry symbol", nil)
	}
	v, err := tokens.ToBaseUnits(amount, tok.Decimals)
	if err != nil {
		fail(2, "invalid "+name+":", err)
	}
	return v
}

func human(raw string, tok tokens.Token) string {
	if !tok.Known {
		return raw
	}
	var v uint64
	if _, err := fmt.Sscan(raw, &v); err != nil {
		return raw
	}
	return tokens.FromBaseUnits(v, tok.Decimals)
}

func fail(code int, msg string, err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, msg, err)
	} else {
		fmt.Fprintln(os.Stderr, msg)
	}
	os.Exit(code)
}
