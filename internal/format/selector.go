// Package format picks which encoded variants of an item to request.
package format

import (
	"sort"
	"ytdl/internal/domain/consts"
	"ytdl/internal/models"
)

// CodecPriority is the codec preference at equal resolution, first match wins.
var CodecPriority = []models.CodecFamily{models.CodecAVC, models.CodecVP9, models.CodecAV1}

// Select returns the target selection for a snapshot's variant list.
//
// Variants are split into SDR and non-SDR groups. Each group keeps only its
// tallest variants; among those, premium renditions win outright, otherwise
// the codec priority decides. Ties within a codec go to the highest bitrate,
// then the lowest format ID. Select never mutates or invents variants.
func Select(variants []models.StreamVariant) models.TargetSelection {
	var sdr, hdr []models.StreamVariant
	for _, v := range variants {
		if !v.HasVideo() {
			continue
		}
		if v.IsSDR() {
			sdr = append(sdr, v)
		} else {
			hdr = append(hdr, v)
		}
	}

	var sel models.TargetSelection
	sel.SDR, sel.ExtraSDR = pickGroup(sdr)
	sel.HDR, sel.ExtraHDR = pickGroup(hdr)
	return sel
}

// pickGroup applies the resolution filter and tie-break policy to one group.
func pickGroup(group []models.StreamVariant) (*models.StreamVariant, []models.StreamVariant) {
	if len(group) == 0 {
		return nil, nil
	}

	maxHeight := 0
	for _, v := range group {
		maxHeight = max(maxHeight, v.Height0())
	}

	tallest := make([]models.StreamVariant, 0, len(group))
	for _, v := range group {
		if v.Height0() == maxHeight {
			tallest = append(tallest, v)
		}
	}

	// Premium renditions bypass codec preference.
	var premium []models.StreamVariant
	for _, v := range tallest {
		if v.IsPremium() {
			premium = append(premium, v)
		}
	}
	if len(premium) > 0 {
		sortByBitrate(premium)
		first := premium[0]
		return &first, premium[1:]
	}

	for _, family := range CodecPriority {
		var matches []models.StreamVariant
		for _, v := range tallest {
			if v.Family() == family {
				matches = append(matches, v)
			}
		}
		if len(matches) > 0 {
			sortByBitrate(matches)
			first := matches[0]
			return &first, nil
		}
	}
	return nil, nil
}

// sortByBitrate orders variants by descending bitrate, then ascending format ID.
func sortByBitrate(vs []models.StreamVariant) {
	sort.SliceStable(vs, func(i, j int) bool {
		if vs[i].TBR != vs[j].TBR {
			return vs[i].TBR > vs[j].TBR
		}
		return vs[i].FormatID < vs[j].FormatID
	})
}

// Expression returns the yt-dlp -f expression for a selected variant,
// pairing it with the audio track that muxes cleanly with its codec.
func Expression(v models.StreamVariant) string {
	audio := consts.AudioFormatOpus
	if v.Family() == models.CodecAVC {
		audio = consts.AudioFormatM4A
	}
	return v.FormatID + "+" + audio
}
