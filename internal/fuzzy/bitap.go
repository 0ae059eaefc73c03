package fuzzy

import "math"

// Result is the outcome of matching one pattern against one text. Indices
// are inclusive [start, end] rune ranges in the prepared text.
type Result struct {
	IsMatch bool
	Score   float64
	Indices [][2]int
}

// minScore is the floor of any non-identical bitap match.
const minScore = 0.001

func patternAlphabet(pattern []rune) map[rune]uint32 {
	mask := make(map[rune]uint32, len(pattern))
	n := len(pattern)
	for i, r := range pattern {
		mask[r] |= 1 << uint(n-i-1)
	}
	return mask
}

func computeScore(patternLen, errors, currentLocation, expectedLocation int, opts Options) float64 {
	accuracy := float64(errors) / float64(patternLen)
	if opts.IgnoreLocation {
		return accuracy
	}
	proximity := expectedLocation - currentLocation
	if proximity < 0 {
		proximity = -proximity
	}
	if opts.Distance == 0 {
		if proximity != 0 {
			return 1
		}
		return accuracy
	}
	return accuracy + float64(proximity)/float64(opts.Distance)
}

// maskToIndices turns a per-character match mask into runs of at least
// minLen consecutive matches.
func maskToIndices(mask []bool, minLen int) [][2]int {
	var indices [][2]int
	start := -1
	for i, m := range mask {
		if m && start == -1 {
			start = i
		} else if !m && start != -1 {
			if i-start >= minLen {
				indices = append(indices, [2]int{start, i - 1})
			}
			start = -1
		}
	}
	if n := len(mask); n > 0 && mask[n-1] && start != -1 && n-start >= minLen {
		indices = append(indices, [2]int{start, n - 1})
	}
	return indices
}

func bitAt(arr []uint32, i int) uint32 {
	if i < 0 || i >= len(arr) {
		return 0
	}
	return arr[i]
}

// bitapSearch runs the Bitap approximate matcher for a pattern of at most
// MaxBits runes. Each pass i allows i errors; a pass only runs while an
// i-error match could still beat the best score so far.
func bitapSearch(text, pattern []rune, alphabet map[rune]uint32, location int, opts Options) Result {
	patternLen := len(pattern)
	textLen := len(text)
	expectedLocation := max(0, min(location, textLen))
	currentThreshold := opts.Threshold
	bestLocation := expectedLocation

	matchMask := make([]bool, textLen)

	for {
		index := indexRunes(text, pattern, bestLocation)
		if index < 0 {
			break
		}
		score := computeScore(patternLen, 0, index, expectedLocation, opts)
		currentThreshold = math.Min(score, currentThreshold)
		bestLocation = index + patternLen
		for i := 0; i < patternLen; i++ {
			matchMask[index+i] = true
		}
	}

	bestLocation = -1
	var lastBitArr []uint32
	finalScore := 1.0
	binMax := patternLen + textLen
	mask := uint32(1) << uint(patternLen-1)

	for i := 0; i < patternLen; i++ {
		binMin := 0
		binMid := binMax
		for binMin < binMid {
			score := computeScore(patternLen, i, expectedLocation+binMid, expectedLocation, opts)
			if score <= currentThreshold {
				binMin = binMid
			} else {
				binMax = binMid
			}
			binMid = (binMax-binMin)/2 + binMin
		}
		binMax = binMid

		start := max(1, expectedLocation-binMid+1)
		var finish int
		if opts.FindAllMatches {
			finish = textLen
		} else {
			finish = min(expectedLocation+binMid, textLen) + patternLen
		}

		bitArr := make([]uint32, finish+2)
		bitArr[finish+1] = (uint32(1) << uint(i)) - 1

		for j := finish; j >= start; j-- {
			currentLocation := j - 1
			var charMatch uint32
			if currentLocation < textLen {
				charMatch = alphabet[text[currentLocation]]
				matchMask[currentLocation] = charMatch != 0
			}

			bitArr[j] = ((bitArr[j+1] << 1) | 1) & charMatch
			if i > 0 {
				bitArr[j] |= ((bitAt(lastBitArr, j+1)|bitAt(lastBitArr, j))<<1 | 1) | bitAt(lastBitArr, j+1)
			}

			if bitArr[j]&mask != 0 {
				finalScore = computeScore(patternLen, i, currentLocation, expectedLocation, opts)
				if finalScore <= currentThreshold {
					currentThreshold = finalScore
					bestLocation = currentLocation
					if bestLocation <= expectedLocation {
						break
					}
					start = max(1, 2*expectedLocation-bestLocation)
				}
			}
		}

		if computeScore(patternLen, i+1, expectedLocation, expectedLocation, opts) > currentThreshold {
			break
		}
		lastBitArr = bitArr
	}

	res := Result{
		IsMatch: bestLocation >= 0,
		Score:   math.Max(minScore, finalScore),
		Indices: maskToIndices(matchMask, opts.MinMatchCharLength),
	}
	if len(res.Indices) == 0 {
		res.IsMatch = false
	}
	return res
}
