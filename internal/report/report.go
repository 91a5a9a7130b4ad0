package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"stablesim/internal/model"
)

// Summary condenses a finished run into the numbers worth reporting.
type Summary struct {
	Ticks         int
	Duration      time.Duration
	Stop          model.StopReason
	TotalDeposits float64
	TotalCoin     float64
	CoinShare     float64 // coin over coin plus deposits
	Households    int
	Adopters      int // households past the adoption cutoff
	AdoptionRate  float64
	MeanWealth    float64
	StdDevWealth  float64
	MedianWealth  float64
	P90Wealth     float64
	MeanUtility   float64
	Overdrafted   int // households negative on either rail
}

// Summarize reduces a run result to its summary statistics.
func Summarize(res *model.Result) Summary {
	sum := Summary{
		Ticks:         res.Ticks,
		Duration:      res.Finished.Sub(res.Started),
		Stop:          res.Stop,
		TotalDeposits: res.TotalDeposits,
		TotalCoin:     res.TotalCoin,
		Households:    len(res.Final.Households),
	}
	if total := res.TotalDeposits + res.TotalCoin; total > 0 {
		sum.CoinShare = res.TotalCoin / total
	}
	if sum.Households == 0 {
		return sum
	}

	wealth := make([]float64, 0, sum.Households)
	utility := make([]float64, 0, sum.Households)
	for _, h := range res.Final.Households {
		wealth = append(wealth, h.BankBalance+h.CoinBalance)
		utility = append(utility, h.CoinUtility)
		if coinFraction(h) > model.AdoptionCutoff {
			sum.Adopters++
		}
		if h.BankBalance < 0 || h.CoinBalance < 0 {
			sum.Overdrafted++
		}
	}
	sum.AdoptionRate = float64(sum.Adopters) / float64(sum.Households)
	sum.MeanWealth = stat.Mean(wealth, nil)
	sum.MeanUtility = stat.Mean(utility, nil)
	if sum.Households > 1 {
		sum.StdDevWealth = stat.StdDev(wealth, nil)
	}
	sort.Float64s(wealth)
	sum.MedianWealth = stat.Quantile(0.5, stat.Empirical, wealth, nil)
	sum.P90Wealth = stat.Quantile(0.9, stat.Empirical, wealth, nil)
	return sum
}

func coinFraction(h model.HouseholdSnapshot) float64 {
	total := h.CoinBalance + h.BankBalance
	if total <= 0 {
		return 0
	}
	return h.CoinBalance / total
}

// Format renders a run result as a Telegram-ready report.
func Format(res *model.Result) string {
	sum := Summarize(res)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>StableSim run report</b> | %s\n\n", res.Finished.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Stopped: %s after %d ticks (%s)\n\n", sum.Stop, sum.Ticks, sum.Duration.Round(time.Millisecond)))

	b.WriteString("💰 <b>Totals:</b>\n")
	b.WriteString(fmt.Sprintf("  deposits: %.2f\n", sum.TotalDeposits))
	b.WriteString(fmt.Sprintf("  coin: %.2f\n", sum.TotalCoin))
	b.WriteString(fmt.Sprintf("  coin share: %.1f%%\n\n", sum.CoinShare*100))

	b.WriteString(fmt.Sprintf("👥 <b>Households (%d):</b>\n", sum.Households))
	b.WriteString(fmt.Sprintf("  adopters: %d (%.1f%%)\n", sum.Adopters, sum.AdoptionRate*100))
	b.WriteString(fmt.Sprintf("  wealth: mean %.2f ± %.2f, median %.2f, p90 %.2f\n", sum.MeanWealth, sum.StdDevWealth, sum.MedianWealth, sum.P90Wealth))
	b.WriteString(fmt.Sprintf("  mean coin utility: %.3f\n", sum.MeanUtility))
	if sum.Overdrafted > 0 {
		b.WriteString(fmt.Sprintf("  ⚠️ overdrafted: %d\n", sum.Overdrafted))
	}

	if len(res.Final.Banks) > 0 {
		b.WriteString("\n🏦 <b>Banks:</b>\n")
		for _, bank := range res.Final.Banks {
			b.WriteString(fmt.Sprintf("  bank %d: reserves %.1f%% of baseline\n", bank.ID, bank.HealthRatio*100))
		}
	}

	return b.String()
}

// FormatText renders the same report without Telegram markup, for
// terminal output.
func FormatText(res *model.Result) string {
	return strings.NewReplacer("<b>", "", "</b>", "").Replace(Format(res))
}
