package headerresolver

import (
	"strings"

	"fjacquet/statement-import/internal/models"
)

// keywordRule claims the first unused column containing one of include and none of exclude.
type keywordRule struct {
	field   models.Field
	include []string
	exclude []string
}

// creditCardRules are applied in order; specific rules come before generic ones so the
// generic ones cannot steal their columns.
var creditCardRules = []keywordRule{
	{field: models.FieldDate, include: []string{"תאריך עסקה", "תאריך רכישה", "transaction date", "purchase date"}},
	{field: models.FieldChargeDate, include: []string{"תאריך חיוב", "charge date", "billing date"}},
	{field: models.FieldDate, include: []string{"תאריך", "date"}, exclude: []string{"חיוב", "charge", "billing"}},
	{field: models.FieldTotalAmount, include: []string{"סכום עסקה", "סכום העסקה", "סכום מקורי", "original amount", "transaction amount"}},
	{field: models.FieldAmount, include: []string{"סכום חיוב", "סכום לחיוב", "charge amount", "billed amount"}},
	{field: models.FieldAmount, include: []string{"סכום", "amount"}},
	{field: models.FieldDescription, include: []string{"שם בית העסק", "שם בית עסק", "בית עסק", "merchant", "description", "תיאור"}},
	{field: models.FieldCardNumber, include: []string{"4 ספרות", "ספרות אחרונות", "כרטיס", "card"}},
	{field: models.FieldType, include: []string{"סוג עסקה", "transaction type"}},
	{field: models.FieldTotalInstallments, include: []string{"מספר תשלומים", "סה\"כ תשלומים", "תשלומים", "total installments", "installments"}},
	{field: models.FieldInstallmentNumber, include: []string{"מספר תשלום", "תשלום", "installment number", "installment"}},
	{field: models.FieldTransactionCode, include: []string{"אסמכתא", "reference"}},
	{field: models.FieldBusinessCategory, include: []string{"ענף", "קטגוריה", "category"}},
	{field: models.FieldDetails, include: []string{"פירוט נוסף", "הערות", "notes", "details"}},
}

// resolveByKeywords fills fields the mapping left unresolved.
func resolveByKeywords(headers []string, columns map[models.Field]int) {
	used := make(map[int]bool, len(columns))
	for _, i := range columns {
		used[i] = true
	}

	for _, rule := range creditCardRules {
		if _, ok := columns[rule.field]; ok {
			continue
		}
		for i, h := range headers {
			if used[i] || h == "" {
				continue
			}
			if matchesRule(h, rule) {
				columns[rule.field] = i
				used[i] = true
				break
			}
		}
	}
}

func matchesRule(header string, rule keywordRule) bool {
	for _, ex := range rule.exclude {
		if strings.Contains(header, ex) {
			return false
		}
	}
	for _, in := range rule.include {
		if strings.Contains(header, Normalize(in)) {
			return true
		}
	}
	return false
}
