package encoder

import "strings"

func (e *encoding) heuristics() {
	if e.opts.Heuristics {
		e.section("graph after repair")
		e.line("edgeAfterRepair(U,V) :- activates(U,V).")
		e.line("edgeAfterRepair(U,V) :- inhibits(U,V).")
	}

	rules := []func(){
		RuleFixedState: e.fixedState,
		RuleDegree:     e.degree,
		RuleEdgeCount:  e.edgeCount,
		RuleSign:       e.sign,
		RuleDiameter:   e.diameter,
		RuleMotifs:     e.motifs,
	}
	for _, rule := range AllRules {
		if e.opts.enabled(rule) {
			e.blank()
			e.comment("heuristic %d: %s", rule, RuleName(rule))
			rules[rule]()
			continue
		}
		e.linef("repairCost(%d,0).", rule)
	}
}

// fixedState expects the last observed state to be a fixed point: one more
// propagation step past the series must not change any gene.
func (e *encoding) fixedState() {
	last := e.net.TimeSteps
	next := last + 1
	for _, o := range e.net.ObservationsAt(last) {
		e.linef("%sPlus(%d,%d).", o.State, o.Gene, next)
	}
	e.blank()
	e.linef("activated(Y,%d) :- receivesActivation(Y,%d), not receivesInhibition(Y,%d).", next, last, last)
	e.linef("inhibited(Y,%d) :- receivesInhibition(Y,%d), not receivesActivation(Y,%d).", next, last, last)
	e.blank()
	e.linef("isInactivePlus(Y,%d) :- active(Y,%d), inhibited(Y,%d).", next, last, next)
	e.linef("isActivePlus(Y,%d) :- active(Y,%d), not inhibited(Y,%d).", next, last, next)
	e.linef("isActivePlus(Y,%d) :- inactive(Y,%d), activated(Y,%d).", next, last, next)
	e.linef("isInactivePlus(Y,%d) :- inactive(Y,%d), not activated(Y,%d).", next, last, next)
	e.linef(" :- isActivePlus(Y,%d), isInactivePlus(Y,%d).", next, next)
	e.blank()
	e.linef("penalty(1) :- activePlus(Y,%d), isInactivePlus(Y,%d).", next, next)
	e.linef("penalty(1) :- inactivePlus(Y,%d), isActivePlus(Y,%d).", next, next)
	e.linef("penalty(1) :- activePlus(Y,%d), not isActivePlus(Y,%d).", next, next)
	e.linef("penalty(1) :- inactivePlus(Y,%d), not isInactivePlus(Y,%d).", next, next)
	e.linef("penalty(1) :- not activePlus(Y,%d), isActivePlus(Y,%d).", next, next)
	e.linef("penalty(1) :- not inactivePlus(Y,%d), isInactivePlus(Y,%d).", next, next)
	e.blank()
	e.linef("repairCost(1,%d) :- penalty(1).", e.totalEdges())
	e.line("repairCost(1,0) :- not penalty(1).")
}

// degree penalises genes whose in+out degree leaves the degree band.
func (e *encoding) degree() {
	band := e.opts.Bands.Degree
	e.linef("kOut(C,X) :- X = %s, gene(C).", e.d.count("D", "edgeAfterRepair(C,D)"))
	e.linef("kIn(C,X) :- X = %s, gene(C).", e.d.count("D", "edgeAfterRepair(D,C)"))
	e.line("kDegree(C,Z) :- kIn(C,X), kOut(C,Y), Z=X+Y.")
	e.linef("kBadGene(C) :- kDegree(C,Z), Z < %d.", band.Min)
	e.linef("kBadGene(C) :- kDegree(C,Z), Z > %d.", band.Max)
	e.linef("kBadGenes(X) :- X = %s.", e.d.count("C", "kBadGene(C)"))
	e.linef("repairCost(2,Y) :- kBadGenes(X), Y=X*%d.", e.totalEdges()/e.net.Genes)
}

func (e *encoding) edgeCount() {
	band := e.opts.Bands.Edges
	total := e.totalEdges()
	e.linef("nbOfEdges(X) :- X = %s.", e.d.count("C,D", "edgeAfterRepair(C,D)"))
	e.linef("repairCost(3,%d) :- nbOfEdges(X), X < %d.", total, band.Min)
	e.linef("repairCost(3,%d) :- nbOfEdges(X), X > %d.", total, band.Max)
	e.linef("repairCost(3,0) :- nbOfEdges(X), X >= %d, X <= %d.", band.Min, band.Max)
}

// sign treats genes active early in the series as activators and genes active
// late as inhibitors, and counts edges whose sign disagrees.
func (e *encoding) sign() {
	half := e.net.TimeSteps / 2
	e.linef("likelyActivator(C) :- active(C,T), T <= %d.", half)
	e.linef("likelyInhibitor(C) :- active(C,T), T > %d.", half)
	e.line("likelyWrongEdge(C,D) :- likelyActivator(C), inhibits(C,D), not likelyInhibitor(C), C != D.")
	e.line("likelyWrongEdge(C,D) :- likelyInhibitor(C), activates(C,D), not likelyActivator(C), C != D.")
	e.linef("likelyWrongEdges(X) :- X = %s.", e.d.count("C,D", "likelyWrongEdge(C,D)"))
	e.line("repairCost(4,X) :- likelyWrongEdges(Y), X=Y*1.")
}

// diameter requires every gene to be reachable from gene 1 and penalises a
// diameter outside the band. Distances are enumerated up to MaxPathLength.
func (e *encoding) diameter() {
	band := e.opts.Bands.Diameter
	total := e.totalEdges()
	e.line("link(X,Y) :- edgeAfterRepair(X,Y), X != Y.")
	e.line("link(Y,X) :- edgeAfterRepair(X,Y), Y != X.")
	e.line("reachable(X) :- link(1,X).")
	e.line("reachable(Y) :- reachable(X), link(X,Y).")
	e.line(" :- gene(X), not reachable(X).")
	e.blank()

	next := 0
	for length := 1; length <= e.opts.MaxPathLength; length++ {
		var hops []string
		from := "X"
		for i := 1; i < length; i++ {
			via := IntermediateName(next)
			next++
			hops = append(hops, "link("+from+","+via+")")
			from = via
		}
		hops = append(hops, "link("+from+",Y)")
		e.linef("dist(X,Y,%d) :- %s, X != Y.", length, strings.Join(hops, ", "))
	}
	e.blank()
	e.linef("smallestDist(X,Y,D) :- D = %s, dist(X,Y,_).", e.d.aggregate("min", "C", "", "dist(X,Y,C)"))
	e.linef("diameter(D) :- D = %s.", e.d.aggregate("max", "C", "X,Y", "smallestDist(X,Y,C)"))
	e.linef("repairCost(5,%d) :- diameter(D), D < %d.", total, band.Min)
	e.linef("repairCost(5,%d) :- diameter(D), D > %d.", total, band.Max)
	e.linef("repairCost(5,0) :- diameter(D), D >= %d, D <= %d.", band.Min, band.Max)
}

// motifs rewards candidate graphs rich in the allowed three-node motifs.
func (e *encoding) motifs() {
	allowed := e.opts.motifs()
	for id := 1; id <= len(motifCatalogue); id++ {
		e.line(motifRule(id, allowed))
	}
	e.linef("dominantMotifs3(D) :- D = %s.", e.d.count("I,X,Y,Z", "motif3(I,X,Y,Z)"))
	e.linef("penaltyMotifs(C) :- dominantMotifs3(Z), C=%d-Z.", e.totalEdges())
	e.line("repairCost(6,C) :- penaltyMotifs(C), C > 0.")
	e.line("repairCost(6,0) :- penaltyMotifs(C), C <= 0.")
}
