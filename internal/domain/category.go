package domain

import "strings"

const (
	// CategoryMarker opens the category tag embedded in question text: "[Category: name]".
	CategoryMarker = "[Category:"
	// Uncategorized is assigned when neither the field nor the text names a category.
	Uncategorized = "uncategorized"

	minQuestionsPerCategory = 2
)

// markerBounds locates the category name between CategoryMarker and the first "]" after it.
func markerBounds(text string) (start, end int, ok bool) {
	i := strings.Index(text, CategoryMarker)
	if i < 0 {
		return 0, 0, false
	}
	start = i + len(CategoryMarker)
	j := strings.Index(text[start:], "]")
	if j < 0 {
		return 0, 0, false
	}
	return start, start + j, true
}

// InferCategory extracts the trimmed name from the first "[Category: name]" marker in text.
// A missing, unterminated or empty marker yields Uncategorized.
func InferCategory(text string) string {
	start, end, ok := markerBounds(text)
	if !ok {
		return Uncategorized
	}
	if name := strings.TrimSpace(text[start:end]); name != "" {
		return name
	}
	return Uncategorized
}

// RewriteCategoryMarker sets the name inside the first complete marker of text to newCat,
// keeping everything around it. Text without a complete marker gets one prepended.
// Applying it twice with the same name is the same as applying it once.
func RewriteCategoryMarker(text, newCat string) string {
	newCat = CleanCategoryName(newCat)
	start, end, ok := markerBounds(text)
	if !ok {
		return CategoryMarker + " " + newCat + "] " + text
	}
	return text[:start] + " " + newCat + text[end:]
}

// CleanCategoryName makes name safe to embed in a marker: "]" would end the marker
// early, so it is removed. Surrounding space is trimmed and a blank name becomes Uncategorized.
func CleanCategoryName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "]", ""))
	if name == "" {
		return Uncategorized
	}
	return name
}

func assignCategory(q *Question, category string) {
	q.Category = CleanCategoryName(category)
	q.Text = RewriteCategoryMarker(q.Text, q.Category)
}

// NormalizeCategories fills every blank category from the marker in the question text.
// Questions that already carry a category are left alone.
func NormalizeCategories(batch QuizBatch) QuizBatch {
	for _, q := range batch {
		if strings.TrimSpace(q.Category) == "" {
			q.Category = InferCategory(q.Text)
		}
	}
	return batch
}

// countCategories returns per-category counts and the categories in first-seen order.
func countCategories(batch QuizBatch) (map[string]int, []string) {
	counts := make(map[string]int)
	var order []string
	for _, q := range batch {
		if _, seen := counts[q.Category]; !seen {
			order = append(order, q.Category)
		}
		counts[q.Category]++
	}
	return counts, order
}

// BalanceGeneral folds singleton categories into the largest category so that every
// category has at least two questions, except that an odd-sized batch keeps its first
// singleton. Ties for the largest category go to the one seen first in the batch.
func BalanceGeneral(batch QuizBatch) QuizBatch {
	total := len(batch)
	if total <= 1 {
		return batch
	}

	counts, order := countCategories(batch)
	mainCategory := order[0]
	for _, cat := range order[1:] {
		if counts[cat] > counts[mainCategory] {
			mainCategory = cat
		}
	}

	var singletons []string
	for _, cat := range order {
		if counts[cat] == 1 {
			singletons = append(singletons, cat)
		}
	}

	toFix := singletons
	if total%2 == 1 && len(singletons) > 0 {
		toFix = singletons[1:]
	}
	if len(toFix) == 0 {
		return batch
	}

	fix := make(map[string]bool, len(toFix))
	for _, cat := range toFix {
		fix[cat] = true
	}
	for _, q := range batch {
		if fix[q.Category] {
			assignCategory(q, mainCategory)
		}
	}
	return batch
}

// BalanceFocused forces every question into the allowed categories and then spreads
// them so each allowed category gets at least two questions where the batch allows it.
// When there are more allowed names than floor(N/2), the first questions are instead
// labelled allowed[0], allowed[1], ... in order.
func BalanceFocused(batch QuizBatch, allowed []string) QuizBatch {
	allowed = ParseFocusCategories(allowed)
	if len(allowed) == 0 {
		return BalanceGeneral(batch)
	}

	NormalizeCategories(batch)

	permitted := make(map[string]bool, len(allowed))
	for _, cat := range allowed {
		permitted[cat] = true
	}
	for _, q := range batch {
		if !permitted[q.Category] {
			assignCategory(q, allowed[0])
		}
	}

	total := len(batch)
	if len(allowed) <= total/2 {
		redistribute(batch, allowed)
	} else {
		for i := 0; i < min(total, len(allowed)); i++ {
			assignCategory(batch[i], allowed[i])
		}
	}
	return batch
}

type categoryDeficit struct {
	category string
	need     int
}

// redistribute moves questions out of categories holding more than the minimum into
// allowed categories below it. Deficits are served in allowed order from a pool of
// surplus question indices in batch order. A pooled question is only taken while its
// category still holds more than the minimum.
func redistribute(batch QuizBatch, allowed []string) {
	counts, _ := countCategories(batch)

	var deficits []categoryDeficit
	for _, cat := range allowed {
		if have := counts[cat]; have < minQuestionsPerCategory {
			deficits = append(deficits, categoryDeficit{category: cat, need: minQuestionsPerCategory - have})
		}
	}
	if len(deficits) == 0 {
		return
	}

	var pool []int
	for i, q := range batch {
		if counts[q.Category] > minQuestionsPerCategory {
			pool = append(pool, i)
		}
	}

	for _, d := range deficits {
		for d.need > 0 && len(pool) > 0 {
			q := batch[pool[0]]
			pool = pool[1:]
			if counts[q.Category] <= minQuestionsPerCategory {
				continue
			}
			counts[q.Category]--
			assignCategory(q, d.category)
			counts[d.category]++
			d.need--
		}
		if len(pool) == 0 {
			break
		}
	}
}

// ParseFocusCategories cleans names like CleanCategoryName, drops blanks and repeats,
// and keeps caller order. It returns nil when nothing is left.
func ParseFocusCategories(raw []string) []string {
	var out []string
	seen := make(map[string]bool, len(raw))
	for _, name := range raw {
		name = strings.TrimSpace(strings.ReplaceAll(name, "]", ""))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// BalanceCategories applies the focused policy when focus names at least one category
// and the general policy otherwise.
func BalanceCategories(batch QuizBatch, focus []string) QuizBatch {
	if allowed := ParseFocusCategories(focus); len(allowed) > 0 {
		return BalanceFocused(batch, allowed)
	}
	return BalanceGeneral(batch)
}

// PrepareBatch normalizes and balances a freshly generated batch in place.
func PrepareBatch(batch QuizBatch, focus []string) QuizBatch {
	return BalanceCategories(NormalizeCategories(batch), focus)
}
