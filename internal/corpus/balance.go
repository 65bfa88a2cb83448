package corpus

import "math/rand"

// TrainFraction is the fixed train share of the split.
const TrainFraction = 0.8

// Balance selects up to target examples spread evenly across schema ids.
// Each schema contributes up to an even share; shortfall is filled from the
// shuffled remainder across all schemas, and overflow is shuffled and
// trimmed. With sufficient pools, per-schema counts differ from the even
// share by at most one.
func Balance(examples []Example, target int, rng *rand.Rand) []Example {
	if target <= 0 || len(examples) == 0 {
		return nil
	}

	// Group by schema preserving first-appearance order for determinism.
	var schemaOrder []string
	bySchema := make(map[string][]Example)
	for _, example := range examples {
		if _, seen := bySchema[example.SchemaID]; !seen {
			schemaOrder = append(schemaOrder, example.SchemaID)
		}
		bySchema[example.SchemaID] = append(bySchema[example.SchemaID], example)
	}

	perSchema := target / len(schemaOrder)
	if perSchema < 1 {
		perSchema = 1
	}

	selected := make([]Example, 0, target)
	chosen := make(map[string]bool)
	for _, schemaID := range schemaOrder {
		pool := bySchema[schemaID]
		shuffle(pool, rng)
		take := perSchema
		if take > len(pool) {
			take = len(pool)
		}
		for _, example := range pool[:take] {
			selected = append(selected, example)
			chosen[example.ID] = true
		}
	}

	if len(selected) < target {
		var remainder []Example
		for _, example := range examples {
			if !chosen[example.ID] {
				remainder = append(remainder, example)
			}
		}
		shuffle(remainder, rng)
		need := target - len(selected)
		if need > len(remainder) {
			need = len(remainder)
		}
		selected = append(selected, remainder[:need]...)
	}

	if len(selected) > target {
		shuffle(selected, rng)
		selected = selected[:target]
	}
	return selected
}

// Split shuffles and partitions examples into disjoint train and test sets
// at the fixed ratio. The union of the two id sets equals the input id set.
func Split(examples []Example, rng *rand.Rand) (train, test []Example) {
	pool := make([]Example, len(examples))
	copy(pool, examples)
	shuffle(pool, rng)
	cut := int(float64(len(pool)) * TrainFraction)
	return pool[:cut], pool[cut:]
}

func shuffle(examples []Example, rng *rand.Rand) {
	rng.Shuffle(len(examples), func(i, j int) {
		examples[i], examples[j] = examples[j], examples[i]
	})
}

// CountBySchema tallies examples per schema id.
func CountBySchema(examples []Example) map[string]int {
	counts := make(map[string]int)
	for _, example := range examples {
		counts[example.SchemaID]++
	}
	return counts
}

// CountBy tallies examples by an arbitrary key function.
func CountBy(examples []Example, key func(Example) string) map[string]int {
	counts := make(map[string]int)
	for _, example := range examples {
		counts[key(example)]++
	}
	return counts
}
