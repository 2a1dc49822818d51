// internal/classify/classify.go
package classify

import (
	"strings"

	"github.com/hfadhel/tawseel-cli/internal/dom"
)

// Category is the semantic label assigned to a candidate form element.
type Category string

const (
	Code        Category = "code"
	SenderName  Category = "senderName"
	PhoneNumber Category = "phoneNumber"
	Province    Category = "province"
	Price       Category = "price"
	CompanyName Category = "companyName"
	Address     Category = "address"
	Notes       Category = "notes"
	Unknown     Category = "unknown"
)

// Rule binds one category to its keyword list. Rules are scored in slice
// order and the order is load-bearing: when two categories reach the same
// match count, the earlier rule wins.
type Rule struct {
	Category Category `json:"category"`
	Keywords []string `json:"keywords"`
}

// rules maps every fillable category to its Arabic and English signals.
// Matching is substring-based, not token-based, so a short keyword can hit
// inside a longer unrelated word; that imprecision is accepted because it is
// what field authors' loose markup actually rewards in practice.
var rules = []Rule{
	{Code, []string{
		"كود", "رقم الوصل", "رقم الطلب", "رقم البوليصة", "وصل رقم",
		"code", "voucher", "order number", "order no", "tracking",
	}},
	{SenderName, []string{
		"اسم المرسل", "اسم الزبون", "اسم العميل", "اسم المستلم", "الاسم",
		"sender", "customer name", "client name", "recipient", "fullname", "full name",
	}},
	{PhoneNumber, []string{
		"هاتف", "موبايل", "جوال", "رقم الهاتف", "تليفون", "رقم الزبون",
		"phone", "mobile", "tel", "whatsapp",
	}},
	{Province, []string{
		"محافظة", "المحافظة", "المدينة", "المنطقة", "القضاء",
		"province", "governorate", "city", "region",
	}},
	{Price, []string{
		"سعر", "السعر", "مبلغ", "المبلغ", "الكلفة", "كلفة", "دينار",
		"price", "amount", "total", "cost",
	}},
	{CompanyName, []string{
		"اسم الشركة", "الشركة", "المتجر", "المجهز", "التاجر",
		"company", "vendor", "store", "merchant", "shop",
	}},
	{Address, []string{
		"عنوان", "العنوان", "اقرب نقطة دالة", "الشارع", "الحي",
		"address", "street", "district",
	}},
	{Notes, []string{
		"ملاحظات", "ملاحظة", "الملاحظات", "تفاصيل", "التفاصيل",
		"notes", "note", "comment", "remarks", "details",
	}},
}

// Classify scores one lower-cased signal corpus against every category and
// returns the best match. Score is a plain count of the category's keywords
// occurring as substrings of the corpus; ties keep the first-defined
// category. A zero best score means the corpus said nothing and the caller
// should fall back to element-type heuristics, so Unknown is returned.
func Classify(corpus string) Category {
	best := Unknown
	bestCount := 0
	for _, r := range rules {
		count := 0
		for _, kw := range r.Keywords {
			if strings.Contains(corpus, kw) {
				count++
			}
		}
		if count > bestCount {
			best = r.Category
			bestCount = count
		}
	}
	return best
}

// ClassifyField classifies a discovered field: first by its aggregated
// textual signals, then, when those say nothing, by element-type heuristics.
// Fields that remain Unknown are never filled.
func ClassifyField(f *dom.Field) Category {
	if c := Classify(dom.Signals(f)); c != Unknown {
		return c
	}
	switch f.Type() {
	case "tel":
		return PhoneNumber
	case "number":
		name := strings.ToLower(f.Name())
		if strings.Contains(name, "price") || strings.Contains(name, "amount") {
			return Price
		}
	}
	return Unknown
}

// Matched returns the keywords of every category found in the corpus, in
// rule order, for diagnostic output. It does not decide anything; Classify
// remains the single decision point.
func Matched(corpus string) map[Category][]string {
	hits := make(map[Category][]string)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(corpus, kw) {
				hits[r.Category] = append(hits[r.Category], kw)
			}
		}
	}
	return hits
}

// KeywordTable returns a copy of the ordered category table, for embedding
// into the in-page engine so both renditions of the classifier score against
// the same keywords.
func KeywordTable() []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		out = append(out, Rule{r.Category, append([]string(nil), r.Keywords...)})
	}
	return out
}

// Categories lists the fillable categories in rule order.
func Categories() []Category {
	out := make([]Category, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.Category)
	}
	return out
}
