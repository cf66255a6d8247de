// cmd/tools/pack-generator/main.go

// pack-generator emits a randomized, schema-valid content pack for load
// and balance testing.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ben3683914/maskhot-sub000/internal/models"
	"github.com/ben3683914/maskhot-sub000/pkg/packmeta"
)

var (
	adjectives = []string{"kind", "funny", "moody", "honest", "arrogant", "patient", "jealous", "curious", "stubborn", "warm"}
	interests  = []string{"hiking", "cooking", "gaming", "reading", "painting", "travel", "astronomy", "cycling", "gardening", "photography"}
	lifestyles = []string{"gym-regular", "smoker", "early-riser", "night-owl", "vegan", "minimalist", "pet-owner", "workaholic", "volunteer", "partygoer"}
	firstNames = []string{"Alex", "Sam", "Jordan", "Riley", "Casey", "Morgan", "Quinn", "Avery", "Rowan", "Sage"}
	genders    = []string{"female", "male", "nonbinary"}
	statuses   = []string{
		"Finally finished that book everyone keeps recommending.",
		"Can't believe how good the weather was this weekend.",
		"Some people just don't understand boundaries.",
		"Spent the whole day helping my neighbor move. Exhausted but happy.",
		"Why does everything close so early in this town?",
	}
)

func main() {
	out := flag.String("out", "./content", "Output directory for the generated pack")
	nCandidates := flag.Int("candidates", 20, "Number of candidates")
	nPosts := flag.Int("posts", 80, "Number of pool posts")
	nTraits := flag.Int("traits", 24, "Number of catalog traits")
	seed := flag.Int64("seed", 0, "Random seed (0 = time-based)")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(*out, 0o755); err != nil {
		fatal("create output dir: %v", err)
	}

	traits := generateTraits(rng, *nTraits)
	candidates := generateCandidates(rng, traits, *nCandidates)
	posts := generatePosts(rng, traits, *nPosts)
	quests := generateQuestLine(rng, traits)

	writeJSON(filepath.Join(*out, "traits.json"), traits)
	writeJSON(filepath.Join(*out, "candidates.json"), candidates)
	writeJSON(filepath.Join(*out, "posts.json"), posts)
	writeYAML(filepath.Join(*out, "quests.yaml"), quests)

	manifest := &packmeta.Manifest{
		SchemaVersion: 1,
		Name:          "generated-pack",
		Version:       fmt.Sprintf("seed-%d", *seed),
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Files: packmeta.Files{
			Traits:     "traits.json",
			Candidates: "candidates.json",
			Posts:      "posts.json",
			Quests:     "quests.yaml",
		},
		Counts: packmeta.Counts{
			Traits:     len(traits),
			Candidates: *nCandidates,
			Posts:      *nPosts,
			Quests:     len(quests["quests"].([]map[string]interface{})),
		},
	}
	if err := manifest.Save(filepath.Join(*out, "manifest.json")); err != nil {
		fatal("write manifest: %v", err)
	}

	fmt.Printf("pack written to %s (seed %d): %d traits, %d candidates, %d posts\n",
		*out, *seed, len(traits), *nCandidates, *nPosts)
}

func generateTraits(rng *rand.Rand, n int) []models.Trait {
	pools := map[models.TraitCategory][]string{
		models.CategoryPersonality: adjectives,
		models.CategoryInterests:   interests,
		models.CategoryLifestyle:   lifestyles,
	}

	var traits []models.Trait
	for cat, names := range pools {
		per := n / 3
		if per > len(names) {
			per = len(names)
		}
		for _, name := range names[:per] {
			traits = append(traits, models.Trait{
				ID:          name,
				Name:        name,
				Category:    cat,
				MatchWeight: 1 + rng.Intn(10),
			})
		}
	}
	return traits
}

func generateCandidates(rng *rand.Rand, traits []models.Trait, n int) []map[string]interface{} {
	var out []map[string]interface{}
	for i := 0; i < n; i++ {
		traitIDs := pickTraitIDs(rng, traits, 3+rng.Intn(4))

		guaranteed := []map[string]interface{}{
			{
				"id":   uuid.New().String(),
				"type": "intro",
				"text": "Hey! New here, say hi.",
			},
		}
		if rng.Float64() < 0.3 {
			guaranteed = append(guaranteed, map[string]interface{}{
				"id":        uuid.New().String(),
				"type":      "status",
				"text":      statuses[rng.Intn(len(statuses))],
				"isRedFlag": true,
				"daysAgo":   1 + rng.Intn(20),
			})
		}
		if rng.Float64() < 0.4 {
			guaranteed = append(guaranteed, map[string]interface{}{
				"id":          uuid.New().String(),
				"type":        "status",
				"text":        statuses[rng.Intn(len(statuses))],
				"isGreenFlag": true,
				"daysAgo":     1 + rng.Intn(20),
			})
		}

		out = append(out, map[string]interface{}{
			"id":              uuid.New().String(),
			"name":            fmt.Sprintf("%s %c.", firstNames[rng.Intn(len(firstNames))], 'A'+rng.Intn(26)),
			"age":             21 + rng.Intn(30),
			"gender":          genders[rng.Intn(len(genders))],
			"traitIds":        traitIDs,
			"guaranteedPosts": guaranteed,
		})
	}
	return out
}

func generatePosts(rng *rand.Rand, traits []models.Trait, n int) []map[string]interface{} {
	var out []map[string]interface{}
	for i := 0; i < n; i++ {
		postType := "status"
		entry := map[string]interface{}{
			"id":       uuid.New().String(),
			"text":     statuses[rng.Intn(len(statuses))],
			"traitIds": pickTraitIDs(rng, traits, rng.Intn(3)),
		}
		if rng.Float64() < 0.35 {
			postType = "photo"
			entry["imageRef"] = fmt.Sprintf("img/%03d.jpg", rng.Intn(500))
		}
		entry["type"] = postType
		if rng.Float64() < 0.1 {
			entry["isRedFlag"] = true
		} else if rng.Float64() < 0.15 {
			entry["isGreenFlag"] = true
		}
		out = append(out, entry)
	}
	return out
}

func generateQuestLine(rng *rand.Rand, traits []models.Trait) map[string]interface{} {
	byCat := map[models.TraitCategory][]models.Trait{}
	for _, t := range traits {
		byCat[t.Category] = append(byCat[t.Category], t)
	}

	var quests []map[string]interface{}
	for i := 0; i < 3; i++ {
		clientTraitIDs := map[string][]string{}
		for cat, list := range byCat {
			clientTraitIDs[string(cat)] = pickTraitIDs(rng, list, 2+rng.Intn(2))
		}

		wanted := byCat[models.CategoryInterests][rng.Intn(len(byCat[models.CategoryInterests]))]
		avoided := byCat[models.CategoryLifestyle][rng.Intn(len(byCat[models.CategoryLifestyle]))]

		quests = append(quests, map[string]interface{}{
			"id":             fmt.Sprintf("quest-%d", i+1),
			"name":           fmt.Sprintf("Client %d", i+1),
			"queueSize":      5,
			"minGoodMatches": 2,
			"passAccuracy":   60.0,
			"criteria": map[string]interface{}{
				"clientId":          uuid.New().String(),
				"clientName":        firstNames[rng.Intn(len(firstNames))],
				"acceptableGenders": []string{genders[rng.Intn(len(genders))], genders[rng.Intn(len(genders))]},
				"minAge":            24,
				"maxAge":            38,
				"clientTraitIds":    clientTraitIDs,
				"categoryWeights": map[string]float64{
					"personality": 30,
					"interests":   25,
					"lifestyle":   20,
				},
				"requirements": []map[string]interface{}{
					{
						"description": fmt.Sprintf("Shares an interest in %s", wanted.Name),
						"level":       "required",
						"categories":  []string{"interests"},
						"traitIds":    []string{wanted.ID},
					},
					{
						"description": fmt.Sprintf("Would rather avoid %s types", avoided.Name),
						"level":       "avoid",
						"categories":  []string{"lifestyle"},
						"traitIds":    []string{avoided.ID},
					},
				},
				"maxRedFlags":   1,
				"minGreenFlags": 0,
			},
		})
	}

	return map[string]interface{}{
		"name":   "generated-line",
		"quests": quests,
	}
}

func pickTraitIDs(rng *rand.Rand, traits []models.Trait, n int) []string {
	if n > len(traits) {
		n = len(traits)
	}
	perm := rng.Perm(len(traits))
	ids := make([]string, 0, n)
	for _, idx := range perm[:n] {
		ids = append(ids, traits[idx].ID)
	}
	return ids
}

func writeJSON(path string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal("marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		fatal("write %s: %v", path, err)
	}
}

func writeYAML(path string, v interface{}) {
	data, err := yaml.Marshal(v)
	if err != nil {
		fatal("marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fatal("write %s: %v", path, err)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
