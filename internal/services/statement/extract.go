package statement

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/bobmcallan/extrato/internal/models"
)

var (
	monthAnchorPattern = regexp.MustCompile(`\d{2}/\d{4}`)
	exactDatePattern   = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	decimalPattern     = regexp.MustCompile(`-?\d{1,3}(?:\.\d{3})*,\d+|-?\d+,\d+`)

	// "SALDO TOTAL 74.963,13 55.555,1486062447": balance first, units second.
	balancePattern = regexp.MustCompile(`(?i)SALDO\s+TOTAL\s+([0-9.,]+)\s+([0-9.,]+)`)
	// "... cota 1,3493461878 do dia 01/12/2024" in the balance footnote.
	balanceNotePattern = regexp.MustCompile(`(?i)cota\s+([0-9,]+)\s+do\s+dia\s+(\d{2}/\d{2}/\d{4})`)
	// Profitability table glues value and month: "1,234182930001/2024".
	monthlyQuotePattern = regexp.MustCompile(`(\d+,\d+)(\d{2}/\d{4})`)
)

// Unit values outside this band are table artifacts, not quota prices.
const (
	minUnitValue = 0.5
	maxUnitValue = 3.0
)

type extractedDocument struct {
	rows       []models.TransactionRow
	balance    *models.BalanceSummary
	unitValues map[string]float64
}

// extractDocument reads the PDF once and runs the three scanners over its
// reconstructed text: transaction rows, the total-balance section and the
// monthly profitability table.
func extractDocument(path string) (*extractedDocument, error) {
	pages, err := readPages(path)
	if err != nil {
		return nil, err
	}

	doc := &extractedDocument{}
	for _, page := range pages {
		for _, line := range page {
			if row, ok := parseTransactionRow(line); ok {
				doc.rows = append(doc.rows, row)
			}
		}
		scanBalance(doc, strings.Join(page, "\n"))
		scanUnitValues(doc, strings.Join(page, "\n"))
	}
	return doc, nil
}

// readPages reconstructs each page as visual text lines. Cells of one table
// row come back as separate positioned fragments, so fragments sharing a row
// are joined with single spaces.
func readPages(path string) ([][]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var pages [][]string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}

		var lines []string
		for _, row := range rows {
			var sb strings.Builder
			for _, text := range row.Content {
				piece := strings.TrimSpace(text.S)
				if piece == "" {
					continue
				}
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(piece)
			}
			if sb.Len() > 0 {
				lines = append(lines, sb.String())
			}
		}
		pages = append(pages, lines)
	}
	return pages, nil
}

// parseTransactionRow reads one movement line. A row needs a CONTRIB or TAXA
// keyword, a month anchor and at least two decimal numbers; the last two
// numbers are the unit value and the units moved. The exact date, when the
// row carries one, may arrive glued to the units column, so date substrings
// are cut out before number scanning.
func parseTransactionRow(line string) (models.TransactionRow, bool) {
	upper := strings.ToUpper(normalizeText(line))
	if !strings.Contains(upper, "CONTRIB") && !strings.Contains(upper, "TAXA") {
		return models.TransactionRow{}, false
	}

	anchorText := monthAnchorPattern.FindString(line)
	if anchorText == "" {
		return models.TransactionRow{}, false
	}
	anchor, err := parseMonth(anchorText)
	if err != nil {
		return models.TransactionRow{}, false
	}

	exactDate := anchor
	if dateText := exactDatePattern.FindString(line); dateText != "" {
		if d, err := parseDate(dateText); err == nil {
			exactDate = d
		}
	}

	cleaned := exactDatePattern.ReplaceAllString(line, " ")
	numbers := decimalPattern.FindAllString(cleaned, -1)
	if len(numbers) < 2 {
		return models.TransactionRow{}, false
	}
	unitValue, err := parseDecimal(numbers[len(numbers)-2])
	if err != nil {
		return models.TransactionRow{}, false
	}
	units, err := parseDecimal(numbers[len(numbers)-1])
	if err != nil {
		return models.TransactionRow{}, false
	}

	isContribution := strings.Contains(upper, "CONTRIB") && units > 0
	isParticipant := strings.Contains(upper, "PARTICIPANTE") ||
		(strings.Contains(upper, "PARTICIP") && !strings.Contains(upper, "PATROC"))

	return models.TransactionRow{
		MonthAnchor:    anchor,
		ExactDate:      exactDate,
		Description:    strings.Join(strings.Fields(line), " "),
		UnitValue:      unitValue,
		UnitsDelta:     units,
		IsContribution: isContribution,
		IsParticipant:  isParticipant,
	}, true
}

// scanBalance looks for the SALDO TOTAL line and its unit-value footnote.
// Balance and units are both required; the footnote is optional.
func scanBalance(doc *extractedDocument, text string) {
	if doc.balance == nil {
		if m := balancePattern.FindStringSubmatch(text); m != nil {
			balance, errBalance := parseDecimal(m[1])
			units, errUnits := parseDecimal(m[2])
			if errBalance == nil && errUnits == nil {
				doc.balance = &models.BalanceSummary{TotalBalance: balance, TotalUnits: units}
			}
		}
	}
	if doc.balance != nil && doc.balance.UnitValue == 0 {
		if m := balanceNotePattern.FindStringSubmatch(text); m != nil {
			if value, err := parseDecimal(m[1]); err == nil {
				doc.balance.UnitValue = value
				if d, err := parseDate(m[2]); err == nil {
					doc.balance.UnitValueDate = d
				}
			}
		}
	}
}

// scanUnitValues reads the monthly profitability table. Candidate matches
// outside the plausible quota band or with an impossible month are artifacts
// of the glued layout and are dropped.
func scanUnitValues(doc *extractedDocument, text string) {
	if !strings.Contains(strings.ToUpper(normalizeText(text)), "RENTABILIDADE") {
		return
	}

	for _, m := range monthlyQuotePattern.FindAllStringSubmatch(text, -1) {
		value, err := parseDecimal(m[1])
		if err != nil {
			continue
		}
		month, err := parseMonth(m[2])
		if err != nil {
			continue
		}
		if value <= minUnitValue || value >= maxUnitValue {
			continue
		}
		if doc.unitValues == nil {
			doc.unitValues = make(map[string]float64)
		}
		doc.unitValues[monthKey(month)] = value
	}
}
