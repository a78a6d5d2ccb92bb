package hierarchy

// TeamLead is the display data for a team's lead.
type TeamLead struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

// TeamEntry is the flat team-hierarchy input row.
type TeamEntry struct {
	ID           string
	Name         string
	Description  *string
	ParentTeamID *string
	MemberCount  int
	Lead         *TeamLead
}

// TeamNode is one team in the parent forest. TotalMemberCount includes every
// descendant sub-team and is never persisted.
type TeamNode struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Description      *string    `json:"description"`
	Lead             *TeamLead  `json:"lead"`
	MemberCount      int        `json:"member_count"`
	TotalMemberCount int        `json:"total_member_count"`
	SubTeams         []TeamNode `json:"sub_teams"`
}

// BuildTeamHierarchy builds the team forest from a flat snapshot ordered by name.
func BuildTeamHierarchy(teams []TeamEntry) ([]TeamNode, error) {
	byParent := make(map[string][]int, len(teams))
	var roots []int
	for i, t := range teams {
		if t.ParentTeamID == nil || *t.ParentTeamID == "" {
			roots = append(roots, i)
			continue
		}
		byParent[*t.ParentTeamID] = append(byParent[*t.ParentTeamID], i)
	}

	visited := 0
	var build func(idx, depth int) (TeamNode, error)
	build = func(idx, depth int) (TeamNode, error) {
		t := teams[idx]
		if depth > MaxDepth {
			return TeamNode{}, &IntegrityError{
				Reason: "team hierarchy exceeds maximum depth",
				IDs:    []string{t.ID},
			}
		}
		visited++

		node := TeamNode{
			ID:               t.ID,
			Name:             t.Name,
			Description:      t.Description,
			Lead:             t.Lead,
			MemberCount:      t.MemberCount,
			TotalMemberCount: t.MemberCount,
			SubTeams:         []TeamNode{},
		}
		for _, child := range byParent[t.ID] {
			sub, err := build(child, depth+1)
			if err != nil {
				return TeamNode{}, err
			}
			node.TotalMemberCount += sub.TotalMemberCount
			node.SubTeams = append(node.SubTeams, sub)
		}
		return node, nil
	}

	forest := make([]TeamNode, 0, len(roots))
	for _, idx := range roots {
		node, err := build(idx, 0)
		if err != nil {
			return nil, err
		}
		forest = append(forest, node)
	}

	if visited != len(teams) {
		seen := make(map[string]bool, visited)
		var mark func(nodes []TeamNode)
		mark = func(nodes []TeamNode) {
			for _, n := range nodes {
				seen[n.ID] = true
				mark(n.SubTeams)
			}
		}
		mark(forest)

		var ids []string
		for _, t := range teams {
			if !seen[t.ID] {
				ids = append(ids, t.ID)
			}
		}
		return nil, &IntegrityError{Reason: "teams unreachable from any root", IDs: ids}
	}
	return forest, nil
}
