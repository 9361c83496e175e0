// Package namegen produces human-readable names for anonymous clients.
//
// Names are adjective-animal pairs such as "curious-otter". They are
// readable enough to show in a client list and varied enough that two
// displays connecting at the same time are unlikely to collide. The
// registry tolerates collisions, so the generator makes no hard
// uniqueness guarantee.
package namegen

import "math/rand/v2"

var adjectives = []string{
	"agile", "amber", "bold", "brave", "bright", "calm", "candid", "casual",
	"cheery", "clever", "cosmic", "crisp", "curious", "daring", "dashing",
	"eager", "fancy", "fearless", "gentle", "glad", "golden", "graceful",
	"happy", "honest", "humble", "jolly", "keen", "kind", "lively", "loyal",
	"lucky", "mellow", "merry", "mighty", "modest", "noble", "patient",
	"peppy", "plucky", "polite", "proud", "quick", "quiet", "rapid", "ready",
	"sharp", "shiny", "silent", "sincere", "smooth", "snappy", "solid",
	"spry", "steady", "sunny", "swift", "tidy", "vivid", "warm", "witty",
}

var animals = []string{
	"badger", "beaver", "bison", "bobcat", "condor", "coyote", "crane",
	"dolphin", "falcon", "ferret", "finch", "fox", "gazelle", "gecko",
	"heron", "hornet", "ibis", "jackal", "jaguar", "kestrel", "kiwi",
	"koala", "lemur", "lynx", "macaw", "magpie", "marmot", "marten",
	"meerkat", "mole", "moose", "narwhal", "ocelot", "orca", "osprey",
	"otter", "owl", "panther", "pelican", "pika", "puffin", "quail",
	"rabbit", "raven", "robin", "salmon", "seal", "shrew", "sparrow",
	"stork", "swan", "tapir", "tern", "toucan", "viper", "walrus",
	"weasel", "wombat", "wren", "yak",
}

// Generate returns a fresh human-readable name
func Generate() string {
	adjective := adjectives[rand.IntN(len(adjectives))]
	animal := animals[rand.IntN(len(animals))]
	return adjective + "-" + animal
}
