package hierarchy

// Person is the flat org-chart input row. Snapshots are expected to be
// sorted by last name already.
type Person struct {
	ID         string
	FirstName  string
	LastName   string
	Title      string
	Department *string
	TeamID     *string
	ManagerID  *string
}

// OrgChartNode is one employee in the manager forest.
type OrgChartNode struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Title      string         `json:"title"`
	Department *string        `json:"department"`
	TeamID     *string        `json:"team_id"`
	Children   []OrgChartNode `json:"children"`
}

// BuildOrgChart turns a flat employee snapshot into the manager forest.
// Siblings keep snapshot order. A snapshot whose chains are deeper than
// MaxDepth, or that holds rows unreachable from any root, is rejected with an
// IntegrityError instead of being rendered partially.
func BuildOrgChart(people []Person) ([]OrgChartNode, error) {
	byParent := make(map[string][]int, len(people))
	var roots []int
	for i, p := range people {
		if p.ManagerID == nil || *p.ManagerID == "" {
			roots = append(roots, i)
			continue
		}
		byParent[*p.ManagerID] = append(byParent[*p.ManagerID], i)
	}

	visited := 0
	var build func(idx, depth int) (OrgChartNode, error)
	build = func(idx, depth int) (OrgChartNode, error) {
		p := people[idx]
		if depth > MaxDepth {
			return OrgChartNode{}, &IntegrityError{
				Reason: "org chart exceeds maximum depth",
				IDs:    []string{p.ID},
			}
		}
		visited++

		node := OrgChartNode{
			ID:         p.ID,
			Name:       p.FirstName + " " + p.LastName,
			Title:      p.Title,
			Department: p.Department,
			TeamID:     p.TeamID,
			Children:   []OrgChartNode{},
		}
		for _, child := range byParent[p.ID] {
			c, err := build(child, depth+1)
			if err != nil {
				return OrgChartNode{}, err
			}
			node.Children = append(node.Children, c)
		}
		return node, nil
	}

	chart := make([]OrgChartNode, 0, len(roots))
	for _, idx := range roots {
		node, err := build(idx, 0)
		if err != nil {
			return nil, err
		}
		chart = append(chart, node)
	}

	if visited != len(people) {
		return nil, &IntegrityError{
			Reason: "employees unreachable from any root",
			IDs:    unreached(people, chart),
		}
	}
	return chart, nil
}

// Flatten walks the forest depth-first and returns each node's parent id.
// Roots map to nil.
func Flatten(chart []OrgChartNode) map[string]*string {
	parents := make(map[string]*string)
	var walk func(nodes []OrgChartNode, parent *string)
	walk = func(nodes []OrgChartNode, parent *string) {
		for _, n := range nodes {
			parents[n.ID] = parent
			id := n.ID
			walk(n.Children, &id)
		}
	}
	walk(chart, nil)
	return parents
}

func unreached(people []Person, chart []OrgChartNode) []string {
	seen := Flatten(chart)
	var ids []string
	for _, p := range people {
		if _, ok := seen[p.ID]; !ok {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
