/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package version

import (
	"fmt"
	"strings"
)

// License identifies one of the license terms a binary can be distributed
// under. GetLicenseName/Legal/Boiler/Full on Version render it.
type License uint8

const (
	License_MIT License = iota
	License_GNU_GPL_v3
	License_GNU_Affero_GPL_v3
	License_GNU_Lesser_GPL_v3
	License_Mozilla_PL_v2
	License_Apache_v2
	License_Unlicense
	License_Creative_Common_Zero_v1
	License_Creative_Common_Attribution_v4_int
	License_Creative_Common_Attribution_Share_Alike_v4_int
	License_SIL_Open_Font_1_1
)

var licenseSeparator = strings.Repeat("*", 80)

type licenseEntry struct {
	name   string
	phrase string
	legal  string
}

var licenseTable = map[License]licenseEntry{
	License_MIT: {
		name:   "MIT License",
		phrase: "MIT License",
		legal: "MIT License\n\n" +
			"Permission is hereby granted, free of charge, to any person obtaining a copy " +
			"of this software and associated documentation files, to deal in the Software " +
			"without restriction, including without limitation the rights to use, copy, " +
			"modify, merge, publish, distribute, sublicense, and/or sell copies of the " +
			"Software, subject to the following conditions: the above copyright notice and " +
			"this permission notice shall be included in all copies or substantial portions " +
			"of the Software. THE SOFTWARE IS PROVIDED \"AS IS\", WITHOUT WARRANTY OF ANY KIND.",
	},
	License_GNU_GPL_v3: {
		name:   "GNU GENERAL PUBLIC LICENSE Version 3",
		phrase: "GNU GENERAL PUBLIC LICENSE Version 3",
		legal: "GNU GENERAL PUBLIC LICENSE\nVersion 3, 29 June 2007\n\n" +
			"This program is free software: you can redistribute it and/or modify it under " +
			"the terms of the GNU General Public License as published by the Free Software " +
			"Foundation, either version 3 of the License, or any later version. This program " +
			"is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY; " +
			"without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR " +
			"PURPOSE. See the GNU General Public License for more details.",
	},
	License_GNU_Affero_GPL_v3: {
		name:   "GNU AFFERO GENERAL PUBLIC LICENSE Version 3",
		phrase: "GNU Affero General Public License",
		legal: "GNU AFFERO GENERAL PUBLIC LICENSE\nVersion 3, 19 November 2007\n\n" +
			"The GNU Affero General Public License is a free, copyleft license designed " +
			"specifically to ensure cooperation with the community in the case of network " +
			"server software, adding a term requiring a server to make available the complete " +
			"source code to the users interacting with it remotely through a network.",
	},
	License_GNU_Lesser_GPL_v3: {
		name:   "GNU LESSER GENERAL PUBLIC LICENSE Version 3",
		phrase: "GNU Lesser General Public License",
		legal: "GNU LESSER GENERAL PUBLIC LICENSE\nVersion 3, 29 June 2007\n\n" +
			"This version of the GNU Lesser General Public License incorporates the terms " +
			"and conditions of version 3 of the GNU General Public License, supplemented by " +
			"additional permissions for linking proprietary applications against the library.",
	},
	License_Mozilla_PL_v2: {
		name:   "Mozilla Public License Version 2.0",
		phrase: "Mozilla Public License Version 2.0",
		legal: "Mozilla Public License Version 2.0\n\n" +
			"This Source Code Form is subject to the terms of the Mozilla Public License, " +
			"v. 2.0. If a copy of the MPL was not distributed with this file, You can obtain " +
			"one at https://mozilla.org/MPL/2.0/.",
	},
	License_Apache_v2: {
		name:   "Apache License Version 2.0",
		phrase: "Apache License",
		legal: "Apache License\nVersion 2.0, January 2004\n\n" +
			"Licensed under the Apache License, Version 2.0 (the \"License\"); you may not " +
			"use this file except in compliance with the License. You may obtain a copy of " +
			"the License at http://www.apache.org/licenses/LICENSE-2.0. Unless required by " +
			"applicable law or agreed to in writing, software distributed under the License " +
			"is distributed on an \"AS IS\" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY " +
			"KIND, either express or implied. See the License for the specific language " +
			"governing permissions and limitations under the License.",
	},
	License_Unlicense: {
		name:   "Free and unencumbered software",
		phrase: "Free and unencumbered software",
		legal: "This is free and unencumbered software released into the public domain.\n\n" +
			"Anyone is free to copy, modify, publish, use, compile, sell, or distribute this " +
			"software, either in source code form or as a compiled binary, for any purpose, " +
			"commercial or non-commercial, and by any means.",
	},
	License_Creative_Common_Zero_v1: {
		name:   "Creative Commons CC0 1.0 Universal",
		phrase: "Creative Commons CC0 1.0 Universal",
		legal: "Creative Commons CC0 1.0 Universal\n\n" +
			"The person who associated a work with this deed has dedicated the work to the " +
			"public domain by waiving all of his or her rights to the work worldwide under " +
			"copyright law, including all related and neighboring rights, to the extent " +
			"allowed by law.",
	},
	License_Creative_Common_Attribution_v4_int: {
		name:   "Creative Commons Attribution 4.0 International",
		phrase: "Creative Commons Attribution 4.0 International",
		legal: "Creative Commons Attribution 4.0 International\n\n" +
			"You are free to share and adapt the material for any purpose, even commercially, " +
			"as long as you give appropriate credit, provide a link to the license, and " +
			"indicate if changes were made.",
	},
	License_Creative_Common_Attribution_Share_Alike_v4_int: {
		name:   "Creative Commons Attribution-ShareAlike 4.0 International",
		phrase: "Creative Commons Attribution-ShareAlike 4.0 International, also known as Share Alike",
		legal: "Creative Commons Attribution-ShareAlike 4.0 International\n\n" +
			"You are free to share and adapt the material for any purpose, even commercially, " +
			"as long as you give appropriate credit and distribute your contributions under " +
			"the same license as the original (Share Alike).",
	},
	License_SIL_Open_Font_1_1: {
		name:   "SIL OPEN FONT LICENSE Version 1.1",
		phrase: "SIL Open Font License Version 1.1",
		legal: "SIL OPEN FONT LICENSE\nVersion 1.1, 26 February 2007\n\n" +
			"The goals of the Open Font License are to stimulate worldwide development of " +
			"collaborative font projects, to support the font creation efforts of academic " +
			"and linguistic communities, and to provide a free and open framework in which " +
			"fonts may be shared and improved in partnership with others.",
	},
}

func (v *version) GetLicenseName() string {
	return licenseTable[v.license].name
}

func (v *version) GetLicenseLegal(extra ...License) string {
	parts := make([]string, 0, 1+len(extra))
	parts = append(parts, licenseTable[v.license].legal)
	for _, e := range extra {
		parts = append(parts, licenseTable[e].legal)
	}

	return joinWithSeparator(parts)
}

func (v *version) GetLicenseBoiler(extra ...License) string {
	parts := make([]string, 0, 1+len(extra))
	parts = append(parts, v.boilerFor(v.license))
	for _, e := range extra {
		parts = append(parts, v.boilerFor(e))
	}

	return joinWithSeparator(parts)
}

func (v *version) GetLicenseFull(extra ...License) string {
	return v.GetLicenseBoiler(extra...) + "\n" + licenseSeparator + "\n" + v.GetLicenseLegal(extra...)
}

// boilerFor renders the short copyright/notice block for one license. The
// Unlicense dedicates the work to the public domain and has no separate
// short form, so its boilerplate is its full legal text.
func (v *version) boilerFor(l License) string {
	if l == License_Unlicense {
		return licenseTable[l].legal
	}

	return fmt.Sprintf(
		"Copyright (c) %d %s\n\n%s\n\nPackage: %s\nDescription: %s\n",
		v.date.Year(), v.author, licenseTable[l].phrase, v.pkg, v.description,
	)
}

func joinWithSeparator(parts []string) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteString("\n")
			b.WriteString(licenseSeparator)
			b.WriteString("\n")
			b.WriteString(licenseSeparator)
			b.WriteString("\n")
		}
		b.WriteString(p)
	}

	return b.String()
}
