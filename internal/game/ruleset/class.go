package ruleset

import "sort"

// Class is one of the fixed character archetypes.
type Class string

const (
	ClassWarrior     Class = "warrior"
	ClassMage        Class = "mage"
	ClassRogue       Class = "rogue"
	ClassArcher      Class = "archer"
	ClassCleric      Class = "cleric"
	ClassPaladin     Class = "paladin"
	ClassNecromancer Class = "necromancer"
	ClassDruid       Class = "druid"
	ClassMonk        Class = "monk"
	ClassBerserker   Class = "berserker"
	ClassAssassin    Class = "assassin"
	ClassRanger      Class = "ranger"
	ClassWarlock     Class = "warlock"
	ClassBard        Class = "bard"
	ClassShaman      Class = "shaman"
	ClassKnight      Class = "knight"
	ClassSorcerer    Class = "sorcerer"
	ClassSummoner    Class = "summoner"
	ClassAlchemist   Class = "alchemist"
	ClassTemplar     Class = "templar"
)

// template builds a base stat block. Chances default to 5% crit, 150% crit
// damage, 5% dodge, 5% block and 95% accuracy unless overridden by the caller.
func template(hp, mp, sp, atk, def, spd, str, dex, intl, vit, wis, luck int) Stats {
	return Stats{
		Health: hp, Mana: mp, Stamina: sp,
		Attack: atk, Defense: def, Speed: spd,
		Strength: str, Dexterity: dex, Intelligence: intl,
		Vitality: vit, Wisdom: wis, Luck: luck,
		CriticalChance: 5, CriticalDamage: 150,
		DodgeChance: 5, BlockChance: 5, Accuracy: 95,
	}
}

func withChances(s Stats, crit, critDmg, dodge, block float64) Stats {
	s.CriticalChance = crit
	s.CriticalDamage = critDmg
	s.DodgeChance = dodge
	s.BlockChance = block
	return s
}

func withResist(s Stats, dt DamageType, v int) Stats {
	s.Resistances[dt] = v
	return s
}

var classTemplates = map[Class]Stats{
	ClassWarrior:     withResist(template(120, 30, 100, 15, 12, 10, 15, 10, 6, 14, 6, 8), DamagePhysical, 10),
	ClassMage:        withResist(template(70, 150, 50, 6, 5, 9, 5, 8, 18, 7, 14, 9), DamageArcane, 15),
	ClassRogue:       withChances(template(85, 40, 110, 12, 7, 16, 9, 16, 8, 9, 7, 14), 15, 175, 15, 3),
	ClassArcher:      withChances(template(80, 40, 100, 13, 6, 14, 9, 17, 8, 8, 9, 11), 12, 160, 10, 2),
	ClassCleric:      withResist(template(95, 130, 60, 7, 9, 9, 8, 7, 14, 10, 17, 8), DamageHoly, 20),
	ClassPaladin:     withResist(template(115, 80, 90, 12, 14, 8, 13, 8, 10, 13, 12, 7), DamageHoly, 15),
	ClassNecromancer: withResist(template(75, 140, 50, 7, 6, 8, 6, 7, 17, 8, 13, 8), DamageDark, 20),
	ClassDruid:       withResist(template(90, 120, 70, 8, 8, 10, 8, 9, 13, 10, 15, 9), DamageEarth, 15),
	ClassMonk:        withChances(template(95, 60, 120, 13, 9, 15, 12, 15, 9, 11, 12, 10), 10, 160, 15, 8),
	ClassBerserker:   withChances(template(130, 20, 110, 17, 8, 11, 17, 10, 5, 15, 5, 8), 10, 200, 3, 2),
	ClassAssassin:    withChances(template(75, 40, 110, 14, 6, 18, 10, 18, 8, 8, 7, 15), 20, 200, 18, 2),
	ClassRanger:      withResist(template(90, 60, 100, 12, 8, 13, 10, 15, 9, 10, 11, 11), DamageWind, 10),
	ClassWarlock:     withResist(template(80, 135, 55, 8, 6, 9, 6, 8, 16, 9, 12, 10), DamageDark, 15),
	ClassBard:        template(80, 100, 80, 8, 7, 12, 7, 12, 12, 9, 11, 16),
	ClassShaman:      withResist(template(90, 120, 70, 9, 8, 10, 9, 9, 13, 10, 14, 9), DamageLightning, 15),
	ClassKnight:      withChances(template(135, 30, 90, 12, 16, 7, 14, 8, 7, 15, 8, 7), 5, 150, 3, 20),
	ClassSorcerer:    withResist(template(70, 155, 45, 6, 5, 10, 5, 9, 19, 7, 13, 9), DamageFire, 15),
	ClassSummoner:    withResist(template(75, 145, 50, 6, 6, 9, 5, 8, 17, 8, 15, 10), DamageArcane, 10),
	ClassAlchemist:   withResist(template(85, 110, 70, 9, 8, 11, 8, 11, 15, 9, 11, 12), DamagePoison, 20),
	ClassTemplar:     withResist(template(110, 90, 80, 13, 13, 9, 13, 9, 11, 12, 13, 8), DamageHoly, 10),
}

// BaseStats returns the fixed base-stat template for c.
//
// Postcondition: Returns (template, true) for a known class, or (zero, false) otherwise.
func BaseStats(c Class) (Stats, bool) {
	s, ok := classTemplates[c]
	return s, ok
}

// Valid reports whether c is one of the fixed archetypes.
func (c Class) Valid() bool {
	_, ok := classTemplates[c]
	return ok
}

// Classes returns every archetype sorted by name.
func Classes() []Class {
	out := make([]Class, 0, len(classTemplates))
	for c := range classTemplates {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
