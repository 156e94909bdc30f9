package charts

// Figure is a declarative chart in the plotly.js figure format, rendered
// client side by Plotly.newPlot(id, data, layout).
type Figure struct {
	ID     string  `json:"id"`
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	Type          string   `json:"type"`
	Name          string   `json:"name,omitempty"`
	Orientation   string   `json:"orientation,omitempty"`
	Mode          string   `json:"mode,omitempty"`
	X             []any    `json:"x,omitempty"`
	Y             []any    `json:"y,omitempty"`
	Labels        []string `json:"labels,omitempty"`
	Values        []int    `json:"values,omitempty"`
	Hole          float64  `json:"hole,omitempty"`
	Domain        *Domain  `json:"domain,omitempty"`
	TextInfo      string   `json:"textinfo,omitempty"`
	TextPosition  string   `json:"textposition,omitempty"`
	TextFont      *Font    `json:"textfont,omitempty"`
	Marker        *Marker  `json:"marker,omitempty"`
	HoverTemplate string   `json:"hovertemplate,omitempty"`
}

type Marker struct {
	// Color is a single color, or one numeric value per point when ColorScale is set.
	Color      any      `json:"color,omitempty"`
	Colors     []string `json:"colors,omitempty"`
	ColorScale string   `json:"colorscale,omitempty"`
	ShowScale  bool     `json:"showscale,omitempty"`
}

type Domain struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

type Font struct {
	Size int `json:"size"`
}

type Layout struct {
	Title        Title        `json:"title"`
	Height       int          `json:"height,omitempty"`
	PaperBGColor string       `json:"paper_bgcolor"`
	PlotBGColor  string       `json:"plot_bgcolor"`
	ShowLegend   bool         `json:"showlegend"`
	BarMode      string       `json:"barmode,omitempty"`
	XAxis        *Axis        `json:"xaxis,omitempty"`
	YAxis        *Axis        `json:"yaxis,omitempty"`
	Grid         *Grid        `json:"grid,omitempty"`
	Annotations  []Annotation `json:"annotations,omitempty"`
}

type Title struct {
	Text string `json:"text"`
}

type Axis struct {
	Title         Title  `json:"title"`
	CategoryOrder string `json:"categoryorder,omitempty"`
}

type Grid struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

type Annotation struct {
	Text      string  `json:"text"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XRef      string  `json:"xref,omitempty"`
	YRef      string  `json:"yref,omitempty"`
	ShowArrow bool    `json:"showarrow"`
	Font      *Font   `json:"font,omitempty"`
}

const whiteBackground = "#ffffff"

// whiteLayout is the base layout every figure starts from.
func whiteLayout(title string, height int) Layout {
	return Layout{
		Title:        Title{Text: title},
		Height:       height,
		PaperBGColor: whiteBackground,
		PlotBGColor:  whiteBackground,
	}
}
