package models

// ============================================================
// Layout export (входной формат)
// ============================================================

// Типы объектов в файле раскладки.
const (
	ObjectTypeVector = "image-vector"
	ObjectTypeRaster = "image-raster"
	ObjectTypeText   = "text"
	ObjectTypeMasked = "maskedContent"
)

type Layout struct {
	ArtboardName string         `json:"artboardName"`
	Width        float64        `json:"width"`
	Height       float64        `json:"height"`
	Objects      []LayoutObject `json:"objects"`
}

type LayoutObject struct {
	Index          int        `json:"index"`
	FileName       string     `json:"fileName"`
	Type           string     `json:"type"`
	Geometry       Rect       `json:"geometry"`
	ZIndex         *int       `json:"zIndex,omitempty"`
	Opacity        *float64   `json:"opacity,omitempty"`
	TextData       *TextData  `json:"textData,omitempty"`
	ClipShape      *ClipShape `json:"clipShape,omitempty"`
	StrokeFileName string     `json:"strokeFileName,omitempty"`
	StrokeBounds   *Rect      `json:"strokeBounds,omitempty"`
	ContentFile    string     `json:"contentFileName,omitempty"`
	TextSvgFile    string     `json:"textSvgFileName,omitempty"`
}

// PaintOrder возвращает zIndex либо index, если zIndex не задан.
func (o LayoutObject) PaintOrder() int {
	if o.ZIndex != nil {
		return *o.ZIndex
	}
	return o.Index
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
}

type TextData struct {
	Content        string   `json:"content"`
	FontFamily     string   `json:"fontFamily"`
	PostScriptName string   `json:"postScriptName,omitempty"`
	FontSize       float64  `json:"fontSize"`
	FontWeight     string   `json:"fontWeight,omitempty"`
	FontStyle      string   `json:"fontStyle,omitempty"`
	Alignment      string   `json:"alignment,omitempty"`
	Decoration     string   `json:"decoration,omitempty"`
	Color          string   `json:"color,omitempty"`
	LineHeight     *float64 `json:"lineHeight,omitempty"`
	LetterSpacing  *float64 `json:"letterSpacing,omitempty"`
}

// Типы масок.
const (
	ShapeEllipse     = "ellipse"
	ShapeRoundedRect = "roundedRect"
	ShapeUnknown     = "unknown"
)

type ClipShape struct {
	Type         string  `json:"type"`
	CornerRadius float64 `json:"cornerRadius,omitempty"`
}

// ============================================================
// Fonts
// ============================================================

type FontCatalogEntry struct {
	DisplayName string `json:"displayName"`
	Ref         string `json:"ref"`
}

// FontChoice: либо ссылка на шрифт платформы, либо fallback в картинку.
type FontChoice struct {
	Ref      string `json:"ref,omitempty"`
	UseImage bool   `json:"useImage,omitempty"`
}

// ImageFallback — sentinel "рендерим текст картинкой".
func ImageFallback() FontChoice {
	return FontChoice{UseImage: true}
}

// ResolvedFontMap строится один раз на артборд до компиляции.
type ResolvedFontMap map[string]FontChoice

// ============================================================
// Scene elements (выходной формат)
// ============================================================

type ElementType string

const (
	ElementImage ElementType = "image"
	ElementText  ElementType = "text"
	ElementShape ElementType = "shape"
	ElementGroup ElementType = "group"
)

type AssetReference struct {
	Ref string `json:"ref"`
}

// SceneElement — tagged variant: заполнены только поля своего типа.
type SceneElement struct {
	Type   ElementType `json:"type"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`

	// image
	Asset *AssetReference `json:"asset,omitempty"`

	// shape (frame: fill можно заменить, не трогая форму)
	PathData        string          `json:"pathData,omitempty"`
	FillAsset       *AssetReference `json:"fillAsset,omitempty"`
	FillReplaceable bool            `json:"fillReplaceable,omitempty"`

	// text
	Text *TextElement `json:"text,omitempty"`

	// group
	Children []SceneElement `json:"children,omitempty"`
}

type TextElement struct {
	Content       string   `json:"content"`
	FontRef       string   `json:"fontRef,omitempty"`
	FontSize      float64  `json:"fontSize"`
	Weight        string   `json:"weight"`
	Style         string   `json:"style"`
	Alignment     string   `json:"alignment"`
	Decoration    string   `json:"decoration"`
	Color         string   `json:"color"`
	LineHeight    *float64 `json:"lineHeight,omitempty"`
	LetterSpacing *float64 `json:"letterSpacing,omitempty"`
}

// OpacityAssignment: elementIndex — позиция элемента в итоговой
// последовательности страницы (пропущенные объекты не считаются).
type OpacityAssignment struct {
	ElementIndex int     `json:"elementIndex"`
	Opacity      float64 `json:"opacity"`
}

// ============================================================
// Platform API payloads
// ============================================================

type PageRequest struct {
	Name     string         `json:"name"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Elements []SceneElement `json:"elements"`
}

type SessionElement struct {
	Editable bool `json:"editable"`
	Locked   bool `json:"locked"`
}
