package compiler

import (
	"log"
	"sort"

	"design-importer/internal/importer/models"
	"design-importer/internal/importer/shape"
)

// ============================================================
// Layout-to-Scene Compiler
// ============================================================

// Ширина текста раздувается на фиксированный запас: метрики шрифтов
// у платформы и у экспортера расходятся.
const textWidthPadding = 1.15

const (
	minFontSize = 1
	maxFontSize = 100
)

type Compiler struct {
	assets map[string]models.AssetReference
	fonts  models.ResolvedFontMap
}

func New(assets map[string]models.AssetReference, fonts models.ResolvedFontMap) *Compiler {
	return &Compiler{assets: assets, fonts: fonts}
}

// Output: элементы в порядке отрисовки и назначения прозрачности.
// ElementIndex назначений совпадает с позицией элемента в Elements:
// пропущенные объекты счетчик не двигают.
type Output struct {
	Elements []models.SceneElement
	Opacity  []models.OpacityAssignment
	Skipped  int
}

// Compile сворачивает объекты раскладки в элементы сцены.
func (c *Compiler) Compile(layout *models.Layout) *Output {
	objects := SortObjects(layout.Objects)
	out := &Output{}

	for _, obj := range objects {
		element, ok := c.compileObject(obj)
		if !ok {
			out.Skipped++
			continue
		}

		if obj.Opacity != nil && *obj.Opacity < 1 {
			out.Opacity = append(out.Opacity, models.OpacityAssignment{
				ElementIndex: len(out.Elements),
				Opacity:      *obj.Opacity,
			})
		}
		out.Elements = append(out.Elements, element)
	}
	return out
}

// SortObjects: zIndex по возрастанию, при равенстве исходный порядок.
func SortObjects(objects []models.LayoutObject) []models.LayoutObject {
	sorted := make([]models.LayoutObject, len(objects))
	copy(sorted, objects)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PaintOrder() < sorted[j].PaintOrder()
	})
	return sorted
}

func (c *Compiler) compileObject(obj models.LayoutObject) (models.SceneElement, bool) {
	switch obj.Type {
	case models.ObjectTypeMasked:
		return c.compileMasked(obj)
	case models.ObjectTypeText:
		return c.compileText(obj), true
	default:
		return c.compileImage(obj)
	}
}

// ============================================================
// Images
// ============================================================

func (c *Compiler) compileImage(obj models.LayoutObject) (models.SceneElement, bool) {
	ref, ok := c.assets[obj.FileName]
	if !ok {
		log.Printf("[COMPILE] Skipping object %d: asset %s not uploaded", obj.Index, obj.FileName)
		return models.SceneElement{}, false
	}
	return imageElement(ref, obj.Geometry), true
}

func imageElement(ref models.AssetReference, g models.Rect) models.SceneElement {
	asset := ref
	return models.SceneElement{
		Type:   models.ElementImage,
		X:      g.X,
		Y:      g.Y,
		Width:  g.Width,
		Height: g.Height,
		Asset:  &asset,
	}
}

// ============================================================
// Masked content
// ============================================================

func (c *Compiler) compileMasked(obj models.LayoutObject) (models.SceneElement, bool) {
	contentName := obj.ContentFile
	if contentName == "" {
		contentName = obj.FileName
	}
	content, haveContent := c.assets[contentName]

	var clip models.ClipShape
	if obj.ClipShape != nil {
		clip = *obj.ClipShape
	}
	pathData, pathOK := shape.PathData(clip, obj.Geometry.Width, obj.Geometry.Height)

	if !pathOK {
		// Неизвестная форма: плоская картинка с raster crop
		fallback, ok := c.assets[obj.FileName]
		if !ok {
			log.Printf("[COMPILE] Skipping mask object %d: no fallback asset %s", obj.Index, obj.FileName)
			return models.SceneElement{}, false
		}
		return imageElement(fallback, obj.Geometry), true
	}

	if !haveContent {
		log.Printf("[COMPILE] Skipping mask object %d: content asset %s not uploaded", obj.Index, contentName)
		return models.SceneElement{}, false
	}

	frame := models.SceneElement{
		Type:            models.ElementShape,
		X:               obj.Geometry.X,
		Y:               obj.Geometry.Y,
		Width:           obj.Geometry.Width,
		Height:          obj.Geometry.Height,
		PathData:        pathData,
		FillAsset:       &content,
		FillReplaceable: true,
	}

	if obj.StrokeFileName == "" {
		return frame, true
	}
	stroke, ok := c.assets[obj.StrokeFileName]
	if !ok {
		log.Printf("[COMPILE] Mask object %d: stroke asset %s not uploaded, frame emitted without stroke", obj.Index, obj.StrokeFileName)
		return frame, true
	}

	// Обводка без собственного bounding box считается совпадающей с маской
	bounds := obj.Geometry
	if obj.StrokeBounds != nil {
		bounds = *obj.StrokeBounds
	}

	// Координаты детей локальны группе: рамка смещается на разницу
	// начал маски и bounding box обводки, чтобы сохранить регистрацию
	frame.X = obj.Geometry.X - bounds.X
	frame.Y = obj.Geometry.Y - bounds.Y

	strokeImage := imageElement(stroke, models.Rect{Width: bounds.Width, Height: bounds.Height})

	return models.SceneElement{
		Type:     models.ElementGroup,
		X:        bounds.X,
		Y:        bounds.Y,
		Width:    bounds.Width,
		Height:   bounds.Height,
		Children: []models.SceneElement{strokeImage, frame},
	}, true
}

// ============================================================
// Text
// ============================================================

var weightMap = map[string]string{
	"thin":      "thin",
	"100":       "thin",
	"light":     "light",
	"300":       "light",
	"regular":   "regular",
	"normal":    "regular",
	"400":       "regular",
	"medium":    "medium",
	"500":       "medium",
	"semibold":  "semibold",
	"600":       "semibold",
	"bold":      "bold",
	"700":       "bold",
	"extrabold": "bold",
	"800":       "bold",
	"black":     "black",
	"900":       "black",
}

var styleMap = map[string]string{
	"italic":  "italic",
	"oblique": "italic",
	"normal":  "normal",
}

var alignmentMap = map[string]string{
	"left":      "left",
	"center":    "center",
	"right":     "right",
	"justify":   "justified",
	"justified": "justified",
}

var decorationMap = map[string]string{
	"underline":     "underline",
	"strikethrough": "strikethrough",
	"line-through":  "strikethrough",
	"none":          "none",
}

func (c *Compiler) compileText(obj models.LayoutObject) models.SceneElement {
	td := obj.TextData
	if td == nil {
		td = &models.TextData{}
	}
	choice := c.fonts[td.FontFamily]

	if choice.UseImage {
		if ref, ok := c.assets[obj.TextSvgFile]; ok {
			return imageElement(ref, obj.Geometry)
		}
		log.Printf("[COMPILE] Text object %d: no pre-rendered image, keeping editable text", obj.Index)
	}

	// Контент никогда не теряется: без шрифта элемент все равно текстовый
	return models.SceneElement{
		Type:   models.ElementText,
		X:      obj.Geometry.X,
		Y:      obj.Geometry.Y,
		Width:  obj.Geometry.Width * textWidthPadding,
		Height: obj.Geometry.Height,
		Text: &models.TextElement{
			Content:       td.Content,
			FontRef:       choice.Ref,
			FontSize:      clampFontSize(td.FontSize),
			Weight:        mapped(weightMap, td.FontWeight, "regular"),
			Style:         mapped(styleMap, td.FontStyle, "normal"),
			Alignment:     mapped(alignmentMap, td.Alignment, "left"),
			Decoration:    mapped(decorationMap, td.Decoration, "none"),
			Color:         defaultColor(td.Color),
			LineHeight:    td.LineHeight,
			LetterSpacing: td.LetterSpacing,
		},
	}
}

func clampFontSize(size float64) float64 {
	if size < minFontSize {
		return minFontSize
	}
	if size > maxFontSize {
		return maxFontSize
	}
	return size
}

// mapped: неизвестные значения падают в нейтральный default, не в ошибку.
func mapped(table map[string]string, value, fallback string) string {
	if v, ok := table[value]; ok {
		return v
	}
	return fallback
}

func defaultColor(color string) string {
	if color == "" {
		return "#000000"
	}
	return color
}
