package ingest

import "unicode"

// Header aliases, compared after normalizeHeader.
var (
	markHeaders     = []string{"marks", "mark", "score", "total marks"}
	nameHeaders     = []string{"name", "student name", "student"}
	identityHeaders = []string{"register number", "reg no", "regno", "register no", "roll no", "roll number", "id"}
	subjectHeaders  = []string{"subject code", "subject", "course code"}
)

// Columns records which sheet columns (0-based) were matched. Optional
// columns are -1 when absent.
type Columns struct {
	Mark     int `json:"mark"`
	Name     int `json:"name"`
	Identity int `json:"identity"`
	Subject  int `json:"subject"`
}

func findColumns(header []string) Columns {
	return Columns{
		Mark:     findColumn(header, markHeaders),
		Name:     findColumn(header, nameHeaders),
		Identity: findColumn(header, identityHeaders),
		Subject:  findColumn(header, subjectHeaders),
	}
}

// findColumn prefers an exact alias match and otherwise accepts a single
// typo in aliases of four or more letters ("Maks").
func findColumn(header []string, aliases []string) int {
	norm := make([]string, len(header))
	for i, h := range header {
		norm[i] = normalizeHeader(h)
	}
	for _, a := range aliases {
		for i, h := range norm {
			if h == a {
				return i
			}
		}
	}
	for _, a := range aliases {
		if len(a) < 4 {
			continue
		}
		for i, h := range norm {
			if h != "" && editDistance(h, a) <= 1 {
				return i
			}
		}
	}
	return -1
}

// normalizeHeader casefolds, drops punctuation and collapses whitespace,
// so "Reg. No" and "reg_no " both become "reg no".
func normalizeHeader(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r), r == '_':
			space = true
		case unicode.IsPunct(r):
			// skip
		default:
			if space && len(out) > 0 {
				out = append(out, ' ')
			}
			space = false
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}

// editDistance is the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	ar, br := []rune(a), []rune(b)
	if len(ar) == 0 {
		return len(br)
	}
	if len(br) == 0 {
		return len(ar)
	}
	dp := make([]int, len(br)+1)
	for j := range dp {
		dp[j] = j
	}
	for i := 1; i <= len(ar); i++ {
		prev := dp[0]
		dp[0] = i
		for j := 1; j <= len(br); j++ {
			tmp := dp[j]
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			dp[j] = min(dp[j]+1, dp[j-1]+1, prev+cost)
			prev = tmp
		}
	}
	return dp[len(br)]
}
