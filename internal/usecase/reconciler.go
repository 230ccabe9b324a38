package usecase

import "github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/domain"

// Reconcile merges the variant quantities and the inventory level map into resolved stock.
// Non-active products are dropped; order of the input is preserved. No I/O.
//
// Per variant the embedded inventory_quantity is authoritative whenever it is present, zero included.
// The inventory level signal is used only when the variant field is missing.
func Reconcile(products []domain.Product, levels domain.InventoryLevelMap) []domain.ReconciledProduct {
	reconciled := make([]domain.ReconciledProduct, 0, len(products))

	for _, product := range products {
		if !product.IsActive() {
			continue
		}
		reconciled = append(reconciled, reconcileProduct(product, levels))
	}

	return reconciled
}

func reconcileProduct(product domain.Product, levels domain.InventoryLevelMap) domain.ReconciledProduct {
	result := domain.ReconciledProduct{
		ID:       product.ID,
		Title:    product.Title,
		Status:   product.Status,
		Variants: make([]domain.VariantStock, 0, len(product.Variants)),
	}

	for _, variant := range product.Variants {
		stock := resolveVariantStock(variant, levels)

		result.Variants = append(result.Variants, stock)
		result.TotalStock += stock.FinalStock
		result.StockSources.InventoryLevels += stock.InventoryLevelStock
		result.StockSources.VariantQuantities += stock.VariantQuantityStock
	}

	result.StockSources.AgreementStatus = ClassifyAgreement(
		result.StockSources.InventoryLevels,
		result.StockSources.VariantQuantities,
	)

	return result
}

func resolveVariantStock(variant domain.Variant, levels domain.InventoryLevelMap) domain.VariantStock {
	stock := domain.VariantStock{
		VariantID:           variant.ID,
		InventoryItemID:     variant.InventoryItemID,
		Title:               variant.Title,
		SKU:                 variant.SKU,
		InventoryLevelStock: levels[variant.InventoryItemID],
	}

	if variant.InventoryQuantity != nil {
		stock.VariantQuantityStock = *variant.InventoryQuantity
		stock.FinalStock = stock.VariantQuantityStock
	} else {
		stock.FinalStock = stock.InventoryLevelStock
		stock.UsedFallback = true
	}

	return stock
}

// ClassifyAgreement compares the product totals of both sources.
// Equal totals are a MATCH even when both are zero; a zero on one side only is a DISCREPANCY.
func ClassifyAgreement(inventoryLevels, variantQuantities int) domain.AgreementStatus {
	switch {
	case inventoryLevels == variantQuantities:
		return domain.AgreementMatch
	case inventoryLevels == 0 || variantQuantities == 0:
		return domain.AgreementDiscrepancy
	default:
		return domain.AgreementPartialMatch
	}
}
