package domain

// BucketWeights defines the linear blend over group z-scores for one position
// bucket, plus the volume guard that zeroes the delta for players who barely
// played.
type BucketWeights struct {
	// Terms maps each metric to its blend coefficient. Metrics absent from a
	// record's z-map contribute 0.
	Terms map[Metric]float64

	// PrimaryVolume is the raw stat checked by the low-volume guard and used
	// as the confidence input.
	PrimaryVolume Metric

	// MinPrimaryVolume is the guard threshold; a record whose PrimaryVolume
	// stat is below it scores a raw delta of 0.
	MinPrimaryVolume float64
}

// WeightTable maps position buckets to their scoring weights. Buckets without
// an entry fall back to PositionUnknown's weights.
type WeightTable map[Position]BucketWeights

// DefaultWeightTable returns the standard scoring weights.
func DefaultWeightTable() WeightTable {
	return WeightTable{
		PositionQB: {
			Terms: map[Metric]float64{
				MetricEPAPerPlay:    0.40,
				MetricCPOE:          0.25,
				MetricPassYards:     0.20,
				MetricPassTDs:       0.15,
				MetricInterceptions: -0.25,
				MetricRushYards:     0.10,
				MetricRushTDs:       0.10,
			},
			PrimaryVolume:    MetricPassAttempts,
			MinPrimaryVolume: 5,
		},
		PositionRB: {
			Terms: map[Metric]float64{
				MetricEPAPerPlay: 0.35,
				MetricRushYards:  0.25,
				MetricRushTDs:    0.15,
				MetricRecYards:   0.15,
				MetricTargets:    0.10,
			},
			PrimaryVolume:    MetricTargets,
			MinPrimaryVolume: 2,
		},
		PositionWR: {
			Terms: map[Metric]float64{
				MetricEPAPerPlay: 0.35,
				MetricRecYards:   0.25,
				MetricRecTDs:     0.20,
				MetricTargets:    0.20,
			},
			PrimaryVolume:    MetricTargets,
			MinPrimaryVolume: 2,
		},
		PositionTE: {
			Terms: map[Metric]float64{
				MetricEPAPerPlay: 0.30,
				MetricRecYards:   0.20,
				MetricRecTDs:     0.20,
				MetricTargets:    0.15,
				MetricCatchRate:  0.15,
			},
			PrimaryVolume:    MetricTargets,
			MinPrimaryVolume: 2,
		},
		PositionUnknown: {
			Terms: map[Metric]float64{
				MetricTotalYards: 0.30,
				MetricEPAPerPlay: 0.30,
				MetricTotalTDs:   0.20,
				MetricVolume:     0.20,
			},
			PrimaryVolume:    MetricVolume,
			MinPrimaryVolume: 0,
		},
	}
}

// Bucket resolves the weights for a position, falling back to the generic
// blend when the bucket has no dedicated entry (DEF, UNKNOWN).
func (t WeightTable) Bucket(p Position) BucketWeights {
	if w, ok := t[p]; ok {
		return w
	}
	return t[PositionUnknown]
}
