package game

// Mark is the score for a single letter of a guess.
type Mark string

const (
	MarkCorrect Mark = "correct"
	MarkPresent Mark = "present"
	MarkAbsent  Mark = "absent"
)

// WordLength is the fixed answer/guess length.
const WordLength = 5

// ValidateWord checks that w is exactly 5 lowercase ascii letters.
func ValidateWord(w string) error {
	if len(w) != WordLength {
		return ErrInvalidWord
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return ErrInvalidWord
		}
	}
	return nil
}

// CheckGuess scores guess against answer with the duplicate-letter cap: a
// letter is never marked correct+present more times than it occurs in the
// answer. Pass 1 takes exact matches out of the answer's letter counts,
// pass 2 hands out "present" only while counts remain.
func CheckGuess(guess, answer string) ([]Mark, error) {
	if err := ValidateWord(guess); err != nil {
		return nil, err
	}
	if err := ValidateWord(answer); err != nil {
		return nil, err
	}

	marks := make([]Mark, WordLength)
	var remaining [26]int

	for i := 0; i < WordLength; i++ {
		if guess[i] == answer[i] {
			marks[i] = MarkCorrect
		} else {
			remaining[answer[i]-'a']++
		}
	}

	for i := 0; i < WordLength; i++ {
		if marks[i] == MarkCorrect {
			continue
		}
		c := guess[i] - 'a'
		if remaining[c] > 0 {
			remaining[c]--
			marks[i] = MarkPresent
		} else {
			marks[i] = MarkAbsent
		}
	}

	return marks, nil
}

// IsWinning reports whether every mark is correct.
func IsWinning(marks []Mark) bool {
	for _, m := range marks {
		if m != MarkCorrect {
			return false
		}
	}
	return len(marks) == WordLength
}
