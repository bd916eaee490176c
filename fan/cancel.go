package fan

// Rule is one row of the cancellation table: when Trigger has fired,
// every fan in Zero is cleared. If Downgrade is set and has fired it is
// cleared and replaced with Self-Drawn.
type Rule struct {
	Trigger   Fan
	Zero      []Fan
	Downgrade Fan
}

// CancellationRules is applied in order after every other fan of a hand
// has been computed. Earlier rows may clear the trigger of a later row.
var CancellationRules = []Rule{
	{Trigger: BigFourWinds, Zero: []Fan{BigThreeWinds, AllPungs, PungOfTerminalsOrHonors}},
	{Trigger: BigThreeDragons, Zero: []Fan{TwoDragonsPungs, DragonPung}},
	{Trigger: AllGreen, Zero: []Fan{HalfFlush, OneVoidedSuit}},
	{Trigger: NineGates, Zero: []Fan{FullFlush, ConcealedHand, OneVoidedSuit, NoHonors},
		Downgrade: FullyConcealedHand},
	{Trigger: FourKongs, Zero: []Fan{SingleWait}},
	{Trigger: SevenShiftedPairs, Zero: []Fan{SevenPairs, FullFlush, ConcealedHand, OneVoidedSuit, NoHonors}},
	{Trigger: ThirteenOrphans, Zero: []Fan{AllTypes, ConcealedHand, SingleWait}},
	{Trigger: AllTerminals, Zero: []Fan{AllTerminalsAndHonors, AllPungs, OutsideHand,
		PungOfTerminalsOrHonors, NoHonors, DoublePung}},
	{Trigger: LittleFourWinds, Zero: []Fan{BigThreeWinds, PungOfTerminalsOrHonors}},
	{Trigger: LittleThreeDragons, Zero: []Fan{TwoDragonsPungs, DragonPung}},
	{Trigger: AllHonors, Zero: []Fan{AllTerminalsAndHonors, AllPungs, OutsideHand,
		PungOfTerminalsOrHonors, OneVoidedSuit}},
	{Trigger: FourConcealedPungs, Zero: []Fan{AllPungs, ConcealedHand},
		Downgrade: FullyConcealedHand},
	{Trigger: PureTerminalChows, Zero: []Fan{SevenPairs, FullFlush, AllChows, PureDoubleChow,
		TwoTerminalChows, OneVoidedSuit, NoHonors}},
	{Trigger: QuadrupleChow, Zero: []Fan{PureShiftedPungs, PureTripleChow, TileHog, PureDoubleChow}},
	{Trigger: FourPureShiftedPungs, Zero: []Fan{PureTripleChow, PureShiftedPungs, AllPungs}},
	{Trigger: FourPureShiftedChows, Zero: []Fan{PureShiftedChows, TwoTerminalChows, ShortStraight}},
	{Trigger: AllTerminalsAndHonors, Zero: []Fan{AllPungs, OutsideHand, PungOfTerminalsOrHonors}},
	{Trigger: SevenPairs, Zero: []Fan{ConcealedHand, SingleWait}},
	{Trigger: GreaterHonorsAndKnittedTiles, Zero: []Fan{AllTypes, ConcealedHand}},
	{Trigger: AllEvenPungs, Zero: []Fan{AllPungs, AllSimples, NoHonors}},
	{Trigger: FullFlush, Zero: []Fan{OneVoidedSuit, NoHonors}},
	{Trigger: PureTripleChow, Zero: []Fan{PureShiftedPungs, PureDoubleChow}},
	{Trigger: PureShiftedPungs, Zero: []Fan{PureTripleChow}},
	{Trigger: UpperTiles, Zero: []Fan{UpperFour, NoHonors}},
	{Trigger: MiddleTiles, Zero: []Fan{AllSimples, NoHonors}},
	{Trigger: LowerTiles, Zero: []Fan{LowerFour, NoHonors}},
	{Trigger: ThreeSuitedTerminalChows, Zero: []Fan{AllChows, NoHonors, MixedDoubleChow, TwoTerminalChows}},
	{Trigger: AllFive, Zero: []Fan{AllSimples, NoHonors}},
	{Trigger: LesserHonorsAndKnittedTiles, Zero: []Fan{AllTypes, ConcealedHand}},
	{Trigger: UpperFour, Zero: []Fan{NoHonors}},
	{Trigger: LowerFour, Zero: []Fan{NoHonors}},
	{Trigger: ReversibleTiles, Zero: []Fan{OneVoidedSuit}},
	{Trigger: LastTileDraw, Zero: []Fan{SelfDrawn}},
	{Trigger: OutWithReplacementTile, Zero: []Fan{SelfDrawn}},
	{Trigger: RobbingTheKong, Zero: []Fan{LastTile}},
	{Trigger: TwoConcealedKongs, Zero: []Fan{ConcealedKong}},
	{Trigger: HalfFlush, Zero: []Fan{OneVoidedSuit}},
	{Trigger: MeldedHand, Zero: []Fan{SingleWait}},
	{Trigger: TwoDragonsPungs, Zero: []Fan{DragonPung}},
	{Trigger: FullyConcealedHand, Zero: []Fan{SelfDrawn}},
	{Trigger: TwoMeldedKongs, Zero: []Fan{MeldedKong}},
	{Trigger: AllChows, Zero: []Fan{NoHonors}},
	{Trigger: AllSimples, Zero: []Fan{NoHonors}},
}

// Cancel clears the fans implied by other fans. Applying it twice gives
// the same table as applying it once.
func Cancel(t *Table) {
	for i := range CancellationRules {
		r := &CancellationRules[i]
		if t[r.Trigger] == 0 {
			continue
		}
		for _, f := range r.Zero {
			t[f] = 0
		}
		if r.Downgrade != None && t[r.Downgrade] != 0 {
			t[r.Downgrade] = 0
			t[SelfDrawn] = 1
		}
	}
}

// deductPungCredit removes Pung of Terminals or Honors credit that a
// larger pattern already covers: one terminal pung for Nine Gates and the
// three wind pungs of Big Three Winds, unless a fan that clears the
// credit entirely has fired. It runs once, before Cancel.
func deductPungCredit(t *Table) {
	if t[NineGates] != 0 {
		takePungCredit(t, 1)
	}
	if t[BigThreeWinds] != 0 && t[BigFourWinds] == 0 && t[LittleFourWinds] == 0 &&
		t[AllHonors] == 0 && t[AllTerminalsAndHonors] == 0 {
		takePungCredit(t, 3)
	}
}

func takePungCredit(t *Table, n int) {
	t[PungOfTerminalsOrHonors] = max(0, t[PungOfTerminalsOrHonors]-n)
}

// resolve runs the credit deduction then the cancellation table.
func resolve(t *Table) {
	deductPungCredit(t)
	Cancel(t)
}
