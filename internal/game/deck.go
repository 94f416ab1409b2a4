package game

// RandomSource picks uniform indices for shuffling. *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// Piles holds the player's card instances. Every instance lives in exactly
// one of Draw, Hand or Discard. The top of the draw pile is index 0.
type Piles struct {
	Draw    []*CardInstance
	Hand    []*CardInstance
	Discard []*CardInstance
}

// DrawReport describes what a Draw call did.
type DrawReport struct {
	Drawn      []*CardInstance
	Reshuffled int // size of the discard pile shuffled back, 0 if none
}

// Shuffle permutes pile in place: for each i, swap with a uniform index in [i, n).
func Shuffle(pile []*CardInstance, rng RandomSource) {
	n := len(pile)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(n-i)
		pile[i], pile[j] = pile[j], pile[i]
	}
}

// DrawCards moves up to n cards from the draw pile to the tail of the hand.
// When the draw pile runs out mid-draw, the discard pile is shuffled into it
// once and drawing continues. Stops silently when both are empty.
func (p *Piles) DrawCards(n int, rng RandomSource) DrawReport {
	var report DrawReport
	for i := 0; i < n; i++ {
		if len(p.Draw) == 0 {
			if len(p.Discard) == 0 {
				break
			}
			report.Reshuffled += len(p.Discard)
			p.reshuffle(rng)
		}
		card := p.Draw[0]
		p.Draw = p.Draw[1:]
		p.Hand = append(p.Hand, card)
		report.Drawn = append(report.Drawn, card)
	}
	return report
}

func (p *Piles) reshuffle(rng RandomSource) {
	p.Draw = append(p.Draw, p.Discard...)
	p.Discard = nil
	Shuffle(p.Draw, rng)
}

// HandCard returns the hand card with the given instance ID, or nil.
func (p *Piles) HandCard(id int) *CardInstance {
	for _, c := range p.Hand {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// DiscardCard moves a specific hand card to the tail of the discard pile.
// Returns false if the card is not in hand.
func (p *Piles) DiscardCard(card *CardInstance) bool {
	for i, c := range p.Hand {
		if c.ID == card.ID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			p.Discard = append(p.Discard, card)
			return true
		}
	}
	return false
}

// DiscardHand moves every hand card, in hand order, to the discard pile.
func (p *Piles) DiscardHand() []*CardInstance {
	discarded := p.Hand
	p.Discard = append(p.Discard, discarded...)
	p.Hand = nil
	return discarded
}

// Total returns the number of card instances across all piles.
func (p *Piles) Total() int {
	return len(p.Draw) + len(p.Hand) + len(p.Discard)
}
