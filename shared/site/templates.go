package site

import "html/template"

// ThemeStorageKey is the only key the gallery writes to browser storage.
const ThemeStorageKey = "gallery-theme"

var monthPageTemplate = template.Must(template.New("month").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{if .Label}}{{.Label}} · {{end}}{{.Site.Name}}</title>
    <meta name="description" content="{{.Site.Description}}">
    <link rel="canonical" href="{{.CanonicalURL}}">
    <meta property="og:title" content="{{.Site.Name}}">
    <meta property="og:description" content="{{.Site.Description}}">
    <meta property="og:type" content="website">
    <meta property="og:url" content="{{.CanonicalURL}}">
    {{- if .SocialImage}}
    <meta property="og:image" content="{{.SocialImage}}">
    {{- end}}
    <style>
        :root { color-scheme: light dark; --bg: #fafafa; --fg: #1b1b1f; --card: #ffffff; --muted: #6b6b76; --accent: #5b4bdb; }
        :root[data-theme="dark"] { --bg: #121217; --fg: #ececf1; --card: #1d1d24; --muted: #9d9daa; --accent: #9d92ff; }
        @media (prefers-color-scheme: dark) {
            :root:not([data-theme="light"]) { --bg: #121217; --fg: #ececf1; --card: #1d1d24; --muted: #9d9daa; --accent: #9d92ff; }
        }
        * { box-sizing: border-box; }
        body { margin: 0; background: var(--bg); color: var(--fg); font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; }
        header, main { max-width: 1100px; margin: 0 auto; padding: 1rem; }
        header { display: flex; flex-wrap: wrap; gap: 1rem; align-items: center; justify-content: space-between; }
        h1 { font-size: 1.5rem; margin: 0; }
        .months { display: flex; flex-wrap: wrap; gap: 0.4rem; list-style: none; padding: 0; margin: 0 0 1rem; }
        .months a { color: var(--muted); text-decoration: none; padding: 0.2rem 0.5rem; border-radius: 4px; }
        .months a[aria-current="page"] { background: var(--accent); color: #fff; }
        .grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(260px, 1fr)); gap: 1rem; }
        .video { background: var(--card); border-radius: 8px; overflow: hidden; }
        .video img { width: 100%; aspect-ratio: 16 / 9; object-fit: cover; display: block; }
        .video .body { padding: 0.75rem; }
        .video a { color: var(--fg); }
        .video .meta { color: var(--muted); font-size: 0.85rem; }
        .embed { aspect-ratio: 16 / 9; }
        .embed iframe { width: 100%; height: 100%; border: 0; }
        .embed[hidden] { display: none; }
        .empty { color: var(--muted); }
    </style>
</head>
<body>
    <header>
        <h1><a href="/">{{.Site.Name}}</a></h1>
        <label>Jump to month
            <input class="js-month-picker" type="month"{{if .Key}} value="{{.Key}}"{{end}}{{if .Oldest}} min="{{.Oldest}}"{{end}}{{if .Newest}} max="{{.Newest}}"{{end}}>
        </label>
        <button class="js-theme-toggle" type="button">Toggle theme</button>
    </header>
    <main>
        <nav aria-label="Months">
            <ul class="months">
                {{- range .Months}}
                <li><a href="{{.Href}}" data-month="{{.Key}}"{{if .Current}} aria-current="page"{{end}}><span class="js-locale-month" data-year="{{.Year}}" data-month="{{.Month}}">{{.Label}}</span></a></li>
                {{- end}}
            </ul>
        </nav>
        {{- if .Label}}
        <h2 class="js-locale-month" data-year="{{.Year}}" data-month="{{.Month}}">{{.Label}}</h2>
        {{- end}}
        {{- if .Cards}}
        <div class="grid">
            {{- range .Cards}}
            <article class="video" data-video-url="{{.Link}}" data-media-type="{{.MediaType}}" data-video-date="{{.Date}}"
                {{- if .Embed.Src}} data-embed-provider="{{.Embed.Provider}}" data-embed-src="{{.Embed.Src}}"{{end}}
                {{- if .Expires}} data-embed-expires="{{.Expires}}"{{end}}>
                <div class="static">
                    <a href="{{.Link}}" target="_blank" rel="noopener"><img src="{{.Thumbnail}}" alt="{{.Title}}" loading="lazy"{{if .Fallback}} data-fallback="{{.Fallback}}"{{end}}></a>
                </div>
                {{- if .Embed.Src}}
                <div class="embed" hidden></div>
                {{- end}}
                <div class="body">
                    <a href="{{.Link}}" target="_blank" rel="noopener">{{.Title}}</a>
                    <div class="meta">
                        {{- if .Date}}<time class="js-locale-date" datetime="{{.Date}}">{{.Date}}</time>{{end}}
                        {{- if .Creator}} · {{.Creator}}{{end}}
                        {{- if .MediaType}} · {{.MediaType}}{{end}}
                        {{- if .ContentType}} · {{.ContentType}}{{end}}
                    </div>
                    {{- if .Notes}}
                    <p>{{.Notes}}</p>
                    {{- end}}
                    {{- if .SecondaryLink}}
                    <a class="secondary" href="{{.SecondaryLink}}" target="_blank" rel="noopener">Second timestamp</a>
                    {{- end}}
                    {{- if .Embed.Src}}
                    <button class="js-play" type="button">Play here</button>
                    {{- end}}
                </div>
            </article>
            {{- end}}
        </div>
        {{- else}}
        <p class="empty">No videos yet.</p>
        {{- end}}
    </main>
    <script>
    var themeKey = {{.ThemeKey}};
    var monthKeys = {{.MonthKeys}};
    var fallbackImages = {{.Fallbacks}};
` + adapterScript + `
    </script>
</body>
</html>
`))

var redirectTemplate = template.Must(template.New("redirect").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <title>Redirecting…</title>
    <link rel="canonical" href="{{.Href}}">
    <meta http-equiv="refresh" content="0; url={{.Href}}">
    <meta name="robots" content="noindex">
</head>
<body>
    <p><a href="{{.Href}}" data-month="{{.Key}}">Continue to {{.Key}}</a></p>
    <script>window.location.replace({{.Href}});</script>
</body>
</html>
`))

// adapterScript wires the rendered markup to the browser. It only reads the
// data attributes written by the renderer.
const adapterScript = `
    (function applyStoredTheme() {
        var stored = null;
        try {
            stored = window.localStorage.getItem(themeKey);
        } catch (_error) {
            return;
        }
        if (stored === "light" || stored === "dark") {
            document.documentElement.setAttribute("data-theme", stored);
        }
    })();

    (function bindThemeToggle() {
        var button = document.querySelector(".js-theme-toggle");
        if (!button) {
            return;
        }
        button.addEventListener("click", function () {
            var root = document.documentElement;
            var current = root.getAttribute("data-theme");
            if (!current) {
                current = window.matchMedia && window.matchMedia("(prefers-color-scheme: dark)").matches ? "dark" : "light";
            }
            var next = current === "dark" ? "light" : "dark";
            root.setAttribute("data-theme", next);
            try {
                window.localStorage.setItem(themeKey, next);
            } catch (_error) {
            }
        });
    })();

    (function formatDatesForLocale() {
        if (!("Intl" in window)) {
            return;
        }
        var dateFormatter = new Intl.DateTimeFormat(undefined, { year: "numeric", month: "short", day: "numeric" });
        document.querySelectorAll(".js-locale-date").forEach(function (node) {
            var raw = node.getAttribute("datetime");
            if (!raw) {
                return;
            }
            var parsed = new Date(raw);
            if (!isNaN(parsed.getTime())) {
                node.textContent = dateFormatter.format(parsed);
            }
        });
        var monthFormatter = new Intl.DateTimeFormat(undefined, { year: "numeric", month: "long" });
        document.querySelectorAll(".js-locale-month").forEach(function (node) {
            var year = parseInt(node.getAttribute("data-year"), 10);
            var month = parseInt(node.getAttribute("data-month"), 10);
            if (year && month) {
                node.textContent = monthFormatter.format(new Date(Date.UTC(year, month - 1, 1)));
            }
        });
    })();

    (function bindThumbnailFallbacks() {
        document.querySelectorAll(".video img").forEach(function (img) {
            var tried = {};
            img.addEventListener("error", function () {
                tried[img.getAttribute("src")] = true;
                var next = img.getAttribute("data-fallback");
                if (!next || tried[next]) {
                    var pool = fallbackImages.filter(function (candidate) {
                        return !tried[candidate];
                    });
                    if (pool.length === 0) {
                        return;
                    }
                    next = pool[Math.floor(Math.random() * pool.length)];
                }
                img.src = next;
            });
        });
    })();

    (function bindEmbeds() {
        document.querySelectorAll("[data-embed-src]").forEach(function (card) {
            var button = card.querySelector(".js-play");
            var container = card.querySelector(".embed");
            var staticView = card.querySelector(".static");
            if (!button || !container) {
                return;
            }
            var expires = Date.parse(card.getAttribute("data-embed-expires") || "");
            if (!isNaN(expires) && Date.now() >= expires) {
                button.remove();
                container.remove();
                return;
            }
            var src = card.getAttribute("data-embed-src");
            if (card.getAttribute("data-embed-provider") === "twitch" && location.hostname) {
                try {
                    var player = new URL(src);
                    player.searchParams.set("parent", location.hostname);
                    src = player.toString();
                } catch (_error) {
                }
            }
            var revert = function () {
                container.hidden = true;
                container.innerHTML = "";
                if (staticView) {
                    staticView.hidden = false;
                }
                button.hidden = true;
            };
            button.addEventListener("click", function () {
                if (container.firstChild) {
                    return;
                }
                var frame = document.createElement("iframe");
                frame.src = src;
                frame.allow = "autoplay; fullscreen; picture-in-picture";
                frame.allowFullscreen = true;
                frame.addEventListener("error", revert, { once: true });
                container.appendChild(frame);
                container.hidden = false;
                if (staticView) {
                    staticView.hidden = true;
                }
            }, { once: true });
        });
    })();

    (function bindMonthPicker() {
        var picker = document.querySelector(".js-month-picker");
        if (!picker || monthKeys.length === 0) {
            return;
        }
        var resolve = function (selected) {
            var sorted = monthKeys.slice().sort().reverse();
            if (sorted.indexOf(selected) !== -1) {
                return selected;
            }
            if (selected >= sorted[0]) {
                return sorted[0];
            }
            if (selected <= sorted[sorted.length - 1]) {
                return sorted[sorted.length - 1];
            }
            for (var i = 0; i < sorted.length; i++) {
                if (sorted[i] <= selected) {
                    return sorted[i];
                }
            }
            return sorted[sorted.length - 1];
        };
        picker.addEventListener("change", function () {
            var value = picker.value;
            if (!/^\d{4}-\d{2}$/.test(value)) {
                return;
            }
            if (picker.max && value > picker.max) {
                value = picker.max;
            }
            if (picker.min && value < picker.min) {
                value = picker.min;
            }
            window.location.href = "/months/" + resolve(value) + "/";
        });
    })();
`