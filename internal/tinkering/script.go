package tinkering

import "regexp"

// Preamble registers a query listener so every SQL statement issued by the
// snippet is echoed with its bindings and timing.
const Preamble = `
    use Illuminate\Support\Facades\DB;
    DB::listen(function ($query) {
        echo "---------------------------- \n";
        echo "[SQL] " . $query->sql . " \n[Bindings: " . implode(', ', $query->bindings) . "] \n[Time: " . $query->time . " ms]\n";
        echo "---------------------------- \n";
    });
    `

var (
	openTag  = regexp.MustCompile(`^<\?php\s*`)
	closeTag = regexp.MustCompile(`\?>\s*$`)
)

// StripTags removes one leading "<?php" (with the whitespace after it) and
// one trailing "?>" (with the whitespace after it). Tags elsewhere in the
// snippet are left alone.
func StripTags(content string) string {
	content = replaceFirst(openTag, content)
	return replaceFirst(closeTag, content)
}

// BuildScript returns the body of the temporary run file for snippet.
func BuildScript(snippet string) string {
	return Preamble + "\n" + StripTags(snippet)
}

func replaceFirst(re *regexp.Regexp, s string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}
