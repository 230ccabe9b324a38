package usecase

import (
	"fmt"
	"strings"

	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/domain"
)

var reportRule = strings.Repeat("=", 80)

// FormatReport renders a stock run the way it is printed on the console
func FormatReport(result *domain.StockUpdateResult) string {
	var b strings.Builder
	summary := result.Summary

	fmt.Fprintf(&b, "FINAL RESULTS (run %s)\n", result.RunID)
	b.WriteString(reportRule + "\n")

	if len(result.ProductsFound) == 0 {
		b.WriteString("No active products found with zero stock!\n")
	} else {
		fmt.Fprintf(&b, "Found %d active products with no stock\n", summary.TotalFound)

		if result.DryRun {
			b.WriteString("\nDRY RUN - Products that would be affected:\n")
			for i, product := range result.ProductsFound {
				marker := ""
				if product.IsExcluded {
					marker = " [EXCLUDED]"
				}
				fmt.Fprintf(&b, "%d. %q (ID: %d) stock=%d sources=%s%s\n",
					i+1, product.Title, product.ID, product.TotalStock, product.StockSources.AgreementStatus, marker)
			}
			if summary.ExcludedCount > 0 {
				fmt.Fprintf(&b, "\n%d products are excluded from updates\n", summary.ExcludedCount)
			}
			fmt.Fprintf(&b, "\n%d products would be updated to draft status.\n", summary.EligibleCount)
		} else {
			fmt.Fprintf(&b, "\nSuccessfully updated: %d products\n", summary.SuccessfulUpdates)
			if summary.ExcludedCount > 0 {
				fmt.Fprintf(&b, "Excluded from updates: %d products\n", summary.ExcludedCount)
			}
			if summary.FailedUpdates > 0 {
				fmt.Fprintf(&b, "Failed to update: %d products\n", summary.FailedUpdates)
				b.WriteString("\nFailed products:\n")
				n := 0
				for _, r := range result.UpdateResults {
					if r.Success {
						continue
					}
					n++
					fmt.Fprintf(&b, "%d. %q (ID: %d): %s\n", n, r.Title, r.ProductID, r.Error)
				}
			}
		}
	}

	if len(result.Discrepancies) > 0 {
		fmt.Fprintf(&b, "\nStock source disagreements: %d discrepancies, %d partial matches\n",
			summary.DiscrepancyCount, summary.PartialMatchCount)
		for _, product := range result.Discrepancies {
			fmt.Fprintf(&b, "- %q (ID: %d) %s: inventory levels=%d, variant quantities=%d, resolved=%d\n",
				product.Title, product.ID, product.StockSources.AgreementStatus,
				product.StockSources.InventoryLevels, product.StockSources.VariantQuantities, product.TotalStock)
		}
	}

	b.WriteString(reportRule + "\n")
	return b.String()
}

// FormatActivationReport renders a bulk activation run
func FormatActivationReport(result *domain.ActivationResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "ACTIVATION RESULTS (run %s)\n", result.RunID)
	b.WriteString(reportRule + "\n")
	if result.DryRun {
		fmt.Fprintf(&b, "DRY RUN - %d products would be set to active:\n", result.Summary.Requested)
	} else {
		fmt.Fprintf(&b, "Activated %d of %d products, %d failed\n",
			result.Summary.Activated, result.Summary.Requested, result.Summary.Failed)
	}
	for i, r := range result.UpdateResults {
		status := "ok"
		if !r.Success {
			status = "FAILED: " + r.Error
		}
		fmt.Fprintf(&b, "%d. %q (ID: %d) %s\n", i+1, r.Title, r.ProductID, status)
	}
	b.WriteString(reportRule + "\n")
	return b.String()
}
