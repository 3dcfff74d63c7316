package graph

// KarateName is the dataset name of the builtin karate club graph.
const KarateName = "karate"

// KarateNodes and KarateEdges are the dimensions of Zachary's karate club
// social network (Zachary 1977): 34 members, 78 observed friendships.
const (
	KarateNodes = 34
	KarateEdges = 78
)

// Faction labels for the karate club split.
const (
	LabelMrHi    = "mr-hi"
	LabelOfficer = "officer"
)

// karateEdgeList is the fixed edge list of the karate club graph,
// 0-indexed, each pair listed once with source < target.
var karateEdgeList = [KarateEdges][2]int{
	{0, 1}, {0, 2}, {0, 3}, {0, 4}, {0, 5}, {0, 6}, {0, 7}, {0, 8},
	{0, 10}, {0, 11}, {0, 12}, {0, 13}, {0, 17}, {0, 19}, {0, 21}, {0, 31},
	{1, 2}, {1, 3}, {1, 7}, {1, 13}, {1, 17}, {1, 19}, {1, 21}, {1, 30},
	{2, 3}, {2, 7}, {2, 8}, {2, 9}, {2, 13}, {2, 27}, {2, 28}, {2, 32},
	{3, 7}, {3, 12}, {3, 13},
	{4, 6}, {4, 10},
	{5, 6}, {5, 10}, {5, 16},
	{6, 16},
	{8, 30}, {8, 32}, {8, 33},
	{9, 33},
	{13, 33},
	{14, 32}, {14, 33},
	{15, 32}, {15, 33},
	{18, 32}, {18, 33},
	{19, 33},
	{20, 32}, {20, 33},
	{22, 32}, {22, 33},
	{23, 25}, {23, 27}, {23, 29}, {23, 32}, {23, 33},
	{24, 25}, {24, 27}, {24, 31},
	{25, 31},
	{26, 29}, {26, 33},
	{27, 33},
	{28, 31}, {28, 33},
	{29, 32}, {29, 33},
	{30, 32}, {30, 33},
	{31, 32}, {31, 33},
	{32, 33},
}

// karateFaction records which faction each member sided with after the
// club split: 0 = Mr. Hi (the instructor), 1 = the officer.
var karateFaction = [KarateNodes]int{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 1,
	0, 0, 0, 0, 1, 1, 0, 0, 1, 0,
	1, 0, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1,
}

// Karate returns the Zachary karate club graph with faction labels.
func Karate() *Graph {
	edges := make([]Edge, 0, KarateEdges)
	for _, p := range karateEdgeList {
		edges = append(edges, Edge{Source: p[0], Target: p[1]})
	}

	g, err := New(KarateName, KarateNodes, edges)
	if err != nil {
		// The edge list is a fixed constant; this cannot fail.
		panic("graph: building karate club graph: " + err.Error())
	}

	labels := make([]string, KarateNodes)
	for i, f := range karateFaction {
		if f == 0 {
			labels[i] = LabelMrHi
		} else {
			labels[i] = LabelOfficer
		}
	}
	g.Labels = labels

	return g
}
