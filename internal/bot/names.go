package bot

import (
	"fmt"
	"math/rand"
)

// namePool is a multilingual pool of snake/warrior themed bot names
// (spec.md §4.8 supplemented feature; pool carried over from the
// teacher's bot.go botNames).
var namePool = []string{
	"Viper", "Cobra", "Mamba", "Python", "Anaconda",
	"Sidewinder", "Rattlesnake", "Phantom", "Shadow", "Blaze",
	"Frostbite", "Venom", "Reaper", "Striker", "Apex",
	"Cyclone", "Tempest", "Havoc", "Wraith", "Spectre",
	"Rắn Thần", "Sấm Sét", "Bão Tố", "Tia Chớp", "Ma Tốc Độ",
	"蛇神", "雷蛇", "龍王", "鬼蛇", "忍者",
	"독사왕", "번개뱀", "용의발톱", "그림자", "폭풍",
	"Serpiente", "Víbora", "Trueno", "Tormenta", "Fuego",
	"Гадюка", "Кобра", "Гром", "Буря", "Тень",
}

// nameSet is a small allocator keeping bot names unique for as long as
// they're in use, mirroring the teacher's package-level botUsedNames map
// but scoped to one bot Manager instead of shared process-global state.
type nameSet struct {
	used map[string]bool
}

func newNameSet() *nameSet {
	return &nameSet{used: make(map[string]bool)}
}

func (n *nameSet) take() string {
	perm := rand.Perm(len(namePool))
	for _, i := range perm {
		name := namePool[i]
		if !n.used[name] {
			n.used[name] = true
			return name
		}
	}
	base := namePool[rand.Intn(len(namePool))]
	for i := 2; ; i++ {
		name := fmt.Sprintf("%s %d", base, i)
		if !n.used[name] {
			n.used[name] = true
			return name
		}
	}
}

func (n *nameSet) release(name string) {
	delete(n.used, name)
}
