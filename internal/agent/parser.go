package agent

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Review is one structured customer review extracted from a raw text blob.
type Review struct {
	ID       int    `json:"id"`
	Product  string `json:"product"`
	Customer string `json:"customer"`
	Review   string `json:"review"`
	Date     string `json:"date"`
	Rating   int    `json:"rating"`
}

var ratingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*yıldız`),
	regexp.MustCompile(`(\d+)\s*/\s*5`),
	regexp.MustCompile(`(\d+)\s*/\s*10`),
}

const starEmoji = "⭐"

// ParseReviews splits a raw text blob into structured reviews. Blocks are
// separated by blank lines; three formats are recognized:
//
//	Product|Customer|Review[|rating text]
//	Ürün: / Müşteri: / Yorum: labelled lines
//	bare review text
//
// Malformed input never produces an error; unrecognizable blocks fall back to
// the bare-text format with placeholder product and customer names.
func ParseReviews(content string) []Review {
	var reviews []Review

	today := time.Now().Format("2006-01-02")
	reviewID := 1

	for _, block := range strings.Split(content, "\n\n") {
		var lines []string
		for _, line := range strings.Split(block, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}

		if len(lines) == 0 {
			continue
		}

		switch {
		// Format 1: "Product|Customer|Review"
		case strings.Count(lines[0], "|") >= 2:
			parts := strings.Split(lines[0], "|")
			reviews = append(reviews, Review{
				ID:       reviewID,
				Product:  strings.TrimSpace(parts[0]),
				Customer: strings.TrimSpace(parts[1]),
				Review:   strings.TrimSpace(parts[2]),
				Date:     today,
				Rating:   ExtractRating(lines[0]),
			})

		// Format 2: labelled multi-line format
		case len(lines) >= 3:
			product := strings.TrimSpace(strings.ReplaceAll(lines[0], "Ürün:", ""))
			customer := strings.TrimSpace(strings.ReplaceAll(lines[1], "Müşteri:", ""))
			review := strings.TrimSpace(strings.ReplaceAll(strings.Join(lines[2:], "\n"), "Yorum:", ""))
			reviews = append(reviews, Review{
				ID:       reviewID,
				Product:  product,
				Customer: customer,
				Review:   review,
				Date:     today,
				Rating:   ExtractRating(review),
			})

		// Format 3: only review text
		default:
			review := strings.Join(lines, " ")
			reviews = append(reviews, Review{
				ID:       reviewID,
				Product:  "Not specified",
				Customer: "Anonymous Customer",
				Review:   review,
				Date:     today,
				Rating:   ExtractRating(review),
			})
		}

		reviewID++
	}

	return reviews
}

// ExtractRating attempts to extract a star rating from text. It recognizes
// "N yıldız", "N/5", "N/10" and star-emoji runs; emoji counts are capped at 5.
// Returns 0 when no rating is found.
func ExtractRating(text string) int {
	for _, pattern := range ratingPatterns {
		if match := pattern.FindStringSubmatch(text); match != nil {
			if rating, err := strconv.Atoi(match[1]); err == nil {
				return rating
			}
		}
	}

	if strings.Contains(text, strings.Repeat(starEmoji, 5)) {
		return 5
	}

	if starCount := strings.Count(text, starEmoji); starCount > 0 {
		if starCount > 5 {
			return 5
		}
		return starCount
	}

	return 0
}
