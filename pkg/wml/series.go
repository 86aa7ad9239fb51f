package wml

import (
	"github.com/beevik/etree"
)

// Series is the loosely-structured content of one WaterML time
// series, projected into the fields the ODM2 loader consumes. Absent
// elements are empty strings; sentinel defaults (unit code 9999,
// "unknown" contacts and so on) are applied by the loader, not here.
type Series struct {
	Site     Site
	Variable Variable
	Unit     Unit
	TimeUnit Unit
	Source   Source
	Levels   []Level
	Methods  []Method
	Values   []Value
}

// Site holds the sourceInfo block of a series.
type Site struct {
	Code          string
	Name          string
	Latitude      string
	Longitude     string
	Elevation     string
	VerticalDatum string
	SRSCode       string
}

// Variable holds the variable block of a series.
type Variable struct {
	Code         string
	Name         string
	Definition   string
	Speciation   string
	NoDataValue  string
	SampleMedium string
}

// Unit holds a unit block, either the measurement unit of the
// variable or the time-spacing unit of its time scale.
type Unit struct {
	Code         string
	Type         string
	Abbreviation string
	Name         string
	Link         string
}

// Source holds the source block describing the data provider.
type Source struct {
	ContactName  string
	Code         string
	Organization string
	Description  string
	Link         string
	Phone        string
	Email        string
	Address      string
}

// Level holds one qualityControlLevel block.
type Level struct {
	Code        string
	Definition  string
	Explanation string
}

// Method holds one method block.
type Method struct {
	Code        string
	Description string
	Link        string
}

// Value holds one observation value with its per-value attributes.
type Value struct {
	Data       string
	DateTime   string
	TimeOffset string
	CensorCode string
	MethodCode string
}

// ParseSeries projects a stored WaterML payload into a Series. The
// namespace is selected by the stored version string.
func ParseSeries(data []byte, version string) (*Series, error) {
	root, err := Parse(data)
	if err != nil {
		return nil, err
	}
	ns := Namespace(version)
	res := &Series{}

	siteTree := ProjectTree(root, ns, []string{"sourceInfo"})
	res.Site = Site{
		Code:          ProjectText(siteTree, ns, []string{"siteCode"}, ""),
		Name:          ProjectText(siteTree, ns, []string{"siteName"}, ""),
		Latitude:      ProjectText(siteTree, ns, []string{"latitude"}, ""),
		Longitude:     ProjectText(siteTree, ns, []string{"longitude"}, ""),
		Elevation:     ProjectText(siteTree, ns, []string{"elevation_m"}, ""),
		VerticalDatum: ProjectText(siteTree, ns, []string{"verticalDatum"}, ""),
		SRSCode:       ProjectAttr(siteTree, ns, []string{"geogLocation"}, "srs", ""),
	}

	varTree := ProjectTree(root, ns, []string{"variable"})
	res.Variable = Variable{
		Code: ProjectText(varTree, ns,
			[]string{"variableCode", "VariableCode"}, ""),
		Name: ProjectText(varTree, ns,
			[]string{"variableName", "VariableName"}, ""),
		Definition: ProjectText(varTree, ns,
			[]string{"variableDescription", "VariableDescription"}, ""),
		Speciation: ProjectText(varTree, ns,
			[]string{"speciation", "Speciation"}, ""),
		NoDataValue: ProjectText(varTree, ns,
			[]string{"noDataValue", "NoDataValue"}, ""),
		SampleMedium: ProjectText(varTree, ns, []string{"sampleMedium"}, ""),
	}
	res.Unit = parseUnit(ProjectTree(varTree, ns, []string{"unit", "units"}), ns)
	res.TimeUnit = parseUnit(ProjectTree(varTree, ns, []string{"timeScale"}), ns)

	srcTree := ProjectTree(root, ns, []string{"source"})
	res.Source = Source{
		ContactName:  ProjectText(srcTree, ns, []string{"contactName"}, ""),
		Code:         ProjectText(srcTree, ns, []string{"sourceCode"}, ""),
		Organization: ProjectText(srcTree, ns, []string{"organization"}, ""),
		Description:  ProjectText(srcTree, ns, []string{"sourceDescription"}, ""),
		Link:         ProjectText(srcTree, ns, []string{"sourceLink"}, ""),
		Phone:        ProjectText(srcTree, ns, []string{"phone"}, ""),
		Email:        ProjectText(srcTree, ns, []string{"email"}, ""),
		Address:      ProjectText(srcTree, ns, []string{"address"}, ""),
	}

	for _, lvlTree := range ProjectTrees(root, ns, []string{"qualityControlLevel"}) {
		res.Levels = append(res.Levels, Level{
			Code:        ProjectText(lvlTree, ns, []string{"qualityControlLevelCode"}, ""),
			Definition:  ProjectText(lvlTree, ns, []string{"definition"}, ""),
			Explanation: ProjectText(lvlTree, ns, []string{"explanation"}, ""),
		})
	}

	for _, mdTree := range ProjectTrees(root, ns, []string{"method"}) {
		res.Methods = append(res.Methods, Method{
			Code: ProjectText(mdTree, ns,
				[]string{"methodCode", "MethodCode"}, ""),
			Description: ProjectText(mdTree, ns,
				[]string{"methodDescription", "MethodDescription"}, ""),
			Link: ProjectText(mdTree, ns,
				[]string{"methodLink", "MethodLink"}, ""),
		})
	}

	for _, valTree := range ProjectTrees(root, ns, []string{"value"}) {
		res.Values = append(res.Values, Value{
			Data:       valTree.Text(),
			DateTime:   valTree.SelectAttrValue("dateTime", ""),
			TimeOffset: valTree.SelectAttrValue("timeOffset", ""),
			CensorCode: valTree.SelectAttrValue("censorCode", ""),
			MethodCode: valTree.SelectAttrValue("methodCode", ""),
		})
	}

	return res, nil
}

func parseUnit(el *etree.Element, ns string) Unit {
	return Unit{
		Code: ProjectText(el, ns,
			[]string{"unitCode", "UnitCode", "unitsCode", "UnitsCode"}, ""),
		Type: ProjectText(el, ns,
			[]string{"unitType", "unitsType", "UnitType", "UnitsType"}, ""),
		Abbreviation: ProjectText(el, ns,
			[]string{"unitAbbreviation", "unitsAbbreviation",
				"UnitAbbreviation", "UnitsAbbreviation"}, ""),
		Name: ProjectText(el, ns,
			[]string{"unitName", "unitsName", "UnitName", "UnitsName"}, ""),
		Link: ProjectText(el, ns,
			[]string{"unitLink", "unitsLink", "UnitLink", "UnitsLink"}, ""),
	}
}

// MethodWindow returns the observation window and value count for one
// method: the values considered are those whose per-value method code
// matches code or is unset. Returns empty strings when no values
// qualify.
func (s *Series) MethodWindow(code string) (first, last string, count int) {
	for _, v := range s.Values {
		if v.MethodCode != code && v.MethodCode != "" {
			continue
		}
		if count == 0 {
			first = v.DateTime
		}
		last = v.DateTime
		count++
	}
	return first, last, count
}
