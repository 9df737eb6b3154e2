package lendingproxy

import (
	"context"
	"time"

	"github.com/code-payments/lending-proxy/pkg/metrics"
	"github.com/code-payments/lending-proxy/pkg/solana"
)

const (
	metricsStructName = "lendingproxy.Processor"

	depositEventName          = "LendingProxyDeposit"
	depositDurationMetricName = "LendingProxy/DepositDuration"
	depositAmountMetricName   = "LendingProxy/DepositedLiquidity"
)

func recordDepositEvent(ctx context.Context, start time.Time, accounts *DepositReserveLiquidityAccounts, liquidityAmount uint64, err error) {
	metrics.RecordDuration(ctx, depositDurationMetricName, time.Since(start))
	if err == nil {
		metrics.RecordCount(ctx, depositAmountMetricName, liquidityAmount)
	}

	kvPairs := map[string]interface{}{
		"liquidity_amount": liquidityAmount,
		"success":          err == nil,
	}

	if accounts != nil {
		kvPairs["reserve"] = solana.KeyString(accounts.Reserve.Key)
		kvPairs["lending_market"] = solana.KeyString(accounts.LendingMarket.Key)
	}
	if err != nil {
		kvPairs["error"] = err.Error()
	}

	metrics.RecordEvent(ctx, depositEventName, kvPairs)
}
