package segment

// SplitWindow cuts text into windows of maxSize characters, each starting
// maxSize-overlap characters after the previous one (at least 1).
// Consecutive windows share min(overlap, len(window)-1) characters.
//
// maxSize <= 0 returns the whole text as one element, and empty text returns
// a single empty element. A negative overlap is treated as 0.
func SplitWindow(text string, maxSize, overlap int) []string {
	if maxSize <= 0 || text == "" {
		return []string{text}
	}
	overlap = max(overlap, 0)

	runes := []rune(text)
	n := len(runes)
	var out []string
	for start := 0; ; {
		end := min(start+maxSize, n)
		out = append(out, string(runes[start:end]))
		if end == n {
			return out
		}
		start = max(end-overlap, start+1)
	}
}
