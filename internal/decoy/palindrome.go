package decoy

// IsPalindromic reports whether seq reads the same from both ends deeply
// enough that its reversal decoy would be degenerate, and returns the degree:
// the number of matching pairs seq[i] == seq[len-1-i] counted from the
// outside in. The middle residue of an odd-length sequence never counts.
//
// Without a cutoff (cutoff <= 0) counting stops at the first mismatch and the
// sequence is palindromic only when every pair matches. With a cutoff every
// pair is examined until the degree reaches the cutoff, and reaching it makes
// the sequence palindromic. The degree must also reach minDegree (at least 1).
func IsPalindromic(seq string, minDegree, cutoff int) (bool, int) {
	n := len(seq)
	if n == 0 {
		return false, 0
	}

	degree := 0
	for i := 0; i < n/2; i++ {
		if cutoff > 0 && degree >= cutoff {
			break
		}
		if seq[i] != seq[n-1-i] {
			if cutoff > 0 {
				continue
			}
			break
		}
		degree++
	}

	if degree < max(minDegree, 1) {
		return false, degree
	}
	if cutoff > 0 && degree >= cutoff {
		return true, degree
	}
	return degree == n/2, degree
}
