package viz

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/davetashner/nitroviz/internal/dataset"
	"github.com/davetashner/nitroviz/internal/style"
)

const leafletHead = `<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>`

// Pie radius in pixels is minRadius plus up to radiusSpan, scaled by the
// site's share of the largest site total.
const (
	minRadius  = 25
	radiusSpan = 30
)

// siteLabel places a site's pie and name so neighbours don't overlap.
type siteLabel struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Arrow     string  `json:"arrow"`
	LatOffset float64 `json:"latOffset"`
	LonOffset float64 `json:"lonOffset"`
	Rotation  float64 `json:"rotation"`
	ZIndex    int     `json:"zIndex"`
}

var siteLabels = map[string]siteLabel{
	dataset.Kabri:       {X: 60, Y: -12, Arrow: "left", LatOffset: 0.05, ZIndex: 400},
	dataset.KfarMenahem: {X: -150, Y: -12, Arrow: "right", Rotation: 60, ZIndex: 200},
	dataset.Kedma:       {X: 50, Y: -12, Arrow: "left", LatOffset: 0.02, LonOffset: 0.03, ZIndex: 300},
	dataset.Gilat:       {X: -110, Y: -12, Arrow: "right", ZIndex: 100},
}

type mapSite struct {
	Name   string         `json:"name"`
	Lat    float64        `json:"lat"`
	Lon    float64        `json:"lon"`
	Total  int            `json:"total"`
	Radius float64        `json:"radius"`
	Crops  map[string]int `json:"crops"`
	Label  siteLabel      `json:"label"`
}

type legendEntry struct {
	Crop  string
	Color string
}

type siteMapData struct {
	Sites      []mapSite
	CropColors map[string]string
	CropOrder  []string
	Legend     []legendEntry
}

// newSiteMap lays out one pie per site with a known coordinate. Sites are
// kept in dataset.Sites order.
func newSiteMap(theme *style.Theme, locations map[string]dataset.Location, counts map[string]map[string]int) siteMapData {
	data := siteMapData{CropColors: make(map[string]string, len(style.CropOrder)), CropOrder: style.CropOrder}
	for _, crop := range style.CropOrder {
		data.CropColors[crop] = theme.Crop(crop)
		data.Legend = append(data.Legend, legendEntry{Crop: crop, Color: theme.Crop(crop)})
	}

	maxTotal := 0
	for _, name := range dataset.Sites {
		loc, ok := locations[name]
		if !ok {
			continue
		}
		s := mapSite{Name: name, Lat: loc.Lat, Lon: loc.Lon, Crops: map[string]int{}, Label: siteLabels[name]}
		for crop, n := range counts[name] {
			s.Crops[crop] = n
			s.Total += n
		}
		maxTotal = max(maxTotal, s.Total)
		data.Sites = append(data.Sites, s)
	}
	for i := range data.Sites {
		s := &data.Sites[i]
		s.Radius = minRadius
		if maxTotal > 0 {
			s.Radius += float64(s.Total) / float64(maxTotal) * radiusSpan
		}
	}
	return data
}

var (
	siteMapOnce sync.Once
	siteMapTmpl *template.Template
)

// renderSiteMap executes the map markup. The site data lands in a script
// context, where html/template serializes it as JSON.
func renderSiteMap(data siteMapData) (template.HTML, error) {
	siteMapOnce.Do(func() {
		siteMapTmpl = template.Must(template.New("sitemap").Parse(siteMapTemplate))
	})
	var buf bytes.Buffer
	if err := siteMapTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // output of html/template
}

const siteMapCSS = `
#site-map { height: 550px; width: 550px; margin: 0 auto; border-radius: 8px; }
.pie-chart-marker, .count-label, .location-label { background: transparent; border: none; }
.pie-segment { cursor: pointer; }
.pie-segment:hover { opacity: 0.8; }
.count-label div { text-align: center; color: white; font-weight: bold; font-size: 15px; pointer-events: none; text-shadow: 0 0 3px rgba(0,0,0,0.6); }
.loc-label { position: relative; white-space: nowrap; font-weight: bold; color: #1b5e20; background: rgba(255,255,255,0.9); padding: 2px 8px; border-radius: 4px; cursor: pointer; }
.loc-label .arrow { position: absolute; top: 50%; width: 40px; height: 2px; background: #1b5e20; }
.loc-label .arrow-left { left: -44px; }
.loc-label .arrow-right { right: -44px; }
.crop-info-panel { display: none; position: relative; max-width: 300px; margin: 10px auto; padding: 12px 16px; background: white; border: 2px solid #228B22; border-radius: 8px; cursor: pointer; }
.crop-info-title { font-weight: bold; font-size: 16px; margin-bottom: 6px; }
.crop-info-total { margin-top: 6px; font-weight: bold; }
.crop-info-close { margin-top: 6px; font-size: 11px; color: #888; }
.map-legend { text-align: center; margin-top: 10px; }
.map-legend > span { margin: 0 10px; font-weight: bold; }
.map-legend .dot { display: inline-block; width: 12px; height: 12px; border-radius: 50%; margin-right: 5px; vertical-align: middle; }
`

const siteMapTemplate = `<div id="site-map"></div>
<div id="crop-info-panel" class="crop-info-panel"></div>
<div class="map-legend">{{range .Legend}}<span><span class="dot" style="background: {{.Color}};"></span>{{.Crop}}</span>{{end}}</div>
<p style="text-align: center; font-size: 12px; color: #666;">Click a pie slice for crop details. Click a site name to show per-crop counts.</p>
<script>
(function() {
  var sites = {{.Sites}};
  var cropColors = {{.CropColors}};
  var cropOrder = {{.CropOrder}};
  var detailed = {};
  var panel = document.getElementById('crop-info-panel');

  var map = L.map('site-map', {
    center: [32.2, 35.0], zoom: 8, zoomControl: false, dragging: false, touchZoom: false,
    doubleClickZoom: false, scrollWheelZoom: false, boxZoom: false, keyboard: false
  });
  L.tileLayer('https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png', {
    attribution: '&copy; OpenStreetMap contributors &copy; CARTO', subdomains: 'abcd', maxZoom: 20
  }).addTo(map);

  function activeCrops(site) {
    return cropOrder.filter(function(c) { return (site.crops[c] || 0) > 0; });
  }

  function countText(x, y, n) {
    return '<text x="' + x + '" y="' + y + '" text-anchor="middle" dominant-baseline="middle" fill="white" font-size="13" font-weight="bold" pointer-events="none">' + n + '</text>';
  }

  function pieSvg(site, withCounts) {
    var r = site.radius, rr = r - 2, d = 2 * r;
    var crops = activeCrops(site);
    var svg = '<svg width="' + d + '" height="' + d + '" viewBox="0 0 ' + d + ' ' + d + '">';
    if (crops.length === 1) {
      svg += '<circle cx="' + r + '" cy="' + r + '" r="' + rr + '" fill="' + cropColors[crops[0]] + '" class="pie-segment" data-crop="' + crops[0] + '"/>';
    } else {
      var start = -60 + site.label.rotation;
      crops.forEach(function(c) {
        var n = site.crops[c], sweep = n * 360 / site.total, end = start + sweep;
        var a0 = start * Math.PI / 180, a1 = end * Math.PI / 180;
        var path = 'M ' + r + ' ' + r +
          ' L ' + (r + rr * Math.cos(a0)) + ' ' + (r + rr * Math.sin(a0)) +
          ' A ' + rr + ' ' + rr + ' 0 ' + (sweep > 180 ? 1 : 0) + ' 1 ' + (r + rr * Math.cos(a1)) + ' ' + (r + rr * Math.sin(a1)) + ' Z';
        svg += '<path d="' + path + '" fill="' + cropColors[c] + '" stroke="white" stroke-width="0.5" class="pie-segment" data-crop="' + c + '"/>';
        if (withCounts) {
          var mid = (start + sweep * 0.5) * Math.PI / 180;
          svg += countText(r + 0.6 * rr * Math.cos(mid), r + 0.6 * rr * Math.sin(mid), n);
        }
        start = end;
      });
    }
    return svg + '<circle cx="' + r + '" cy="' + r + '" r="' + (r - 1) + '" fill="none" stroke="white" stroke-width="2" pointer-events="none"/></svg>';
  }

  function showCrop(crop) {
    var html = '<div class="crop-info-title" style="color: ' + cropColors[crop] + ';">' + crop + '</div>';
    var sum = 0;
    sites.forEach(function(s) {
      var n = s.crops[crop] || 0;
      sum += n;
      if (n > 0) { html += '<div><strong>' + s.name + ':</strong> ' + n + ' samples</div>'; }
    });
    html += '<div class="crop-info-total">Total: ' + sum + ' samples</div><div class="crop-info-close">Click to close</div>';
    panel.innerHTML = html;
    panel.style.display = 'block';
  }

  function bindSegments(el) {
    el.querySelectorAll('.pie-segment').forEach(function(seg) {
      seg.addEventListener('click', function(e) {
        e.stopPropagation();
        showCrop(seg.getAttribute('data-crop'));
      });
    });
  }

  function icon(cls, html, size, anchor) {
    return L.divIcon({className: cls, html: html, iconSize: size, iconAnchor: anchor});
  }

  sites.forEach(function(site) {
    var pos = [site.lat + site.label.latOffset, site.lon + site.label.lonOffset];
    var r = site.radius, d = 2 * r;
    var pie = L.marker(pos, {icon: icon('pie-chart-marker', '<div>' + pieSvg(site, false) + '</div>', [d, d], [r, r]), zIndexOffset: site.label.zIndex}).addTo(map);
    var count = L.marker(pos, {
      icon: icon('count-label', '<div style="width: ' + d + 'px; line-height: ' + d + 'px;">' + site.total + '</div>', [d, d], [r, r]),
      zIndexOffset: site.label.zIndex + 10, interactive: false
    }).addTo(map);
    var arrow = '<span class="arrow arrow-' + site.label.arrow + '"></span>';
    var label = L.marker(pos, {
      icon: icon('location-label', '<div class="loc-label" style="transform: translate(' + site.label.x + 'px, ' + site.label.y + 'px);">' + site.name + arrow + '</div>', [0, 0], [0, 0]),
      zIndexOffset: site.label.zIndex + 20
    }).addTo(map);

    bindSegments(pie.getElement());
    if (activeCrops(site).length > 1) {
      label.on('click', function() {
        detailed[site.name] = !detailed[site.name];
        var el = pie.getElement().querySelector('div');
        el.innerHTML = pieSvg(site, detailed[site.name]);
        bindSegments(el);
        count.getElement().style.display = detailed[site.name] ? 'none' : 'block';
      });
    }
  });

  panel.addEventListener('click', function() { panel.style.display = 'none'; });
  map.on('click', function() { panel.style.display = 'none'; });
})();
</script>`
