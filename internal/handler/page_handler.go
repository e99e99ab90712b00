package handler

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/application"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PageHandler serves the map page.
type PageHandler struct {
	service *application.SessionService
	logger  *zap.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(service *application.SessionService, logger *zap.Logger) *PageHandler {
	return &PageHandler{service: service, logger: logger}
}

// RegisterRoutes registers the page route.
func (h *PageHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.MapPage)
}

type pageData struct {
	Session *application.SessionDTO
	Panel   template.HTML
}

// MapPage handles GET /. Every page load opens a new session.
func (h *PageHandler) MapPage(c *gin.Context) {
	sess, err := h.service.Create(c.Request.Context(), application.CreateSessionRequest{})
	if err != nil {
		response.Error(c, err)
		return
	}

	panelHTML, err := h.service.PanelHTML(c.Request.Context(), sess.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	var buf bytes.Buffer
	if err := mapPageTemplate.Execute(&buf, pageData{Session: sess, Panel: panelHTML}); err != nil {
		h.logger.Error("failed to render map page", zap.Error(err))
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

var mapPageTemplate = template.Must(template.New("map").Parse(mapPageHTML))

const mapPageHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="initial-scale=1.0, width=device-width">
  <title>Route map</title>
  <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
  <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
  <style>
    #map { width: {{.Session.Viewport.Width}}px; height: {{.Session.Viewport.Height}}px; float: left; }
    #panel { width: 320px; margin-left: 10px; float: left; font-family: Arial, sans-serif; }
    .arrow { display: inline-block; width: 16px; }
  </style>
</head>
<body>
  <div id="map" data-session="{{.Session.ID}}"></div>
  <div id="panel">{{.Panel}}</div>
  <script>
    var sessionID = {{.Session.ID}};
    var base = "/api/v1/sessions/" + sessionID;
    var map = L.map("map").setView([{{.Session.Camera.Lat}}, {{.Session.Camera.Lng}}], {{.Session.Camera.Zoom}});
    L.tileLayer("https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png", {maxZoom: 20}).addTo(map);
    var drawn = L.layerGroup().addTo(map);
    var renders = {{.Session.Renders}};

    function draw() {
      fetch(base + "/overlays").then(function (r) { return r.json(); }).then(function (fc) {
        drawn.clearLayers();
        L.geoJSON(fc, {
          style: function (f) { return {weight: f.properties.lineWidth, color: f.properties.strokeColor}; },
          pointToLayer: function (f, latlng) {
            var icon = L.divIcon({html: f.properties.icon || "", className: "", iconAnchor: f.properties.anchor || [12, 12]});
            var m = L.marker(latlng, {icon: icon});
            if (f.properties.tap_index !== undefined) {
              m.on("click", function () {
                fetch(base + "/markers/" + f.properties.tap_index + "/tap", {method: "POST"})
                  .then(function (r) { return r.json(); })
                  .then(function (b) { L.popup().setLatLng([b.data.position.lat, b.data.position.lng]).setContent(b.data.content).openOn(map); map.panTo([b.data.position.lat, b.data.position.lng]); });
              });
            }
            return m;
          }
        }).addTo(drawn);
      });
      fetch(base + "/panel").then(function (r) { return r.text(); }).then(function (html) {
        document.getElementById("panel").innerHTML = html;
      });
      fetch(base).then(function (r) { return r.json(); }).then(function (s) {
        if (s.data.renders > renders) {
          renders = s.data.renders;
          map.setView([s.data.camera.lat, s.data.camera.lng], s.data.camera.zoom);
        }
      });
    }

    function camera() {
      var c = map.getCenter();
      return {lat: c.lat, lng: c.lng, zoom: map.getZoom()};
    }

    map.on("moveend", function () {
      fetch(base + "/camera", {method: "PUT", headers: {"Content-Type": "application/json"},
        body: JSON.stringify(camera())});
    });

    map.on("click", function (evt) {
      fetch(base + "/taps", {method: "POST", headers: {"Content-Type": "application/json"},
        body: JSON.stringify({x: evt.containerPoint.x, y: evt.containerPoint.y, camera: camera()})});
    });

    var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + base + "/notifications/ws");
    ws.onmessage = function (evt) { alert(JSON.parse(evt.data).message); };

    setTimeout(draw, 500);
    setInterval(draw, 5000);
  </script>
</body>
</html>
`
