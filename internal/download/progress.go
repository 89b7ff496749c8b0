package download

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vidmin/vidmin/internal/models"
)

var (
	percentRe     = regexp.MustCompile(`(\d+\.?\d*)%`)
	speedRe       = regexp.MustCompile(`([\d.]+)(K|M|G)iB/s`)
	etaRe         = regexp.MustCompile(`ETA\s+([\d:]+)`)
	destinationRe = regexp.MustCompile(`^\[download\] Destination: (.+)$`)
	mergerRe      = regexp.MustCompile(`^\[Merger\] Merging formats into "(.+)"$`)
	alreadyRe     = regexp.MustCompile(`^\[download\] (.+) has already been downloaded`)
)

var speedUnits = map[string]float64{
	"K": 1024,
	"M": 1024 * 1024,
	"G": 1024 * 1024 * 1024,
}

// applyLine folds one line of yt-dlp --newline output into d and reports
// whether anything changed.
func applyLine(d *models.Download, line string) bool {
	line = strings.TrimSpace(line)
	changed := false

	for _, re := range []*regexp.Regexp{destinationRe, mergerRe, alreadyRe} {
		if m := re.FindStringSubmatch(line); m != nil {
			d.Filename = m[1]
			return true
		}
	}

	if m := percentRe.FindStringSubmatch(line); m != nil {
		if p, err := strconv.ParseFloat(m[1], 64); err == nil {
			d.Progress = p
			changed = true
		}
	}

	if m := speedRe.FindStringSubmatch(line); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			d.Speed = v * speedUnits[m[2]]
			changed = true
		}
	}

	if m := etaRe.FindStringSubmatch(line); m != nil {
		d.ETA = parseETA(m[1])
		changed = true
	}

	return changed
}

// parseETA converts mm:ss or hh:mm:ss into seconds.
func parseETA(s string) int {
	parts := strings.Split(s, ":")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0
		}
		nums[i] = n
	}

	switch len(nums) {
	case 2:
		return nums[0]*60 + nums[1]
	case 3:
		return nums[0]*3600 + nums[1]*60 + nums[2]
	}
	return 0
}
